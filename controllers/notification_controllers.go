package controllers

import (
	"net/http"

	"github.com/mihirmehra/employee-management-system/middleware"
	"github.com/mihirmehra/employee-management-system/response"
	"github.com/mihirmehra/employee-management-system/services/logger"
	"github.com/mihirmehra/employee-management-system/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

type NotificationController struct {
	melody   *melody.Melody
	notifier *notification.MelodyService
	tokens   middleware.CallerResolver
	logger   logger.Logger
}

func NewNotificationController(m *melody.Melody, tokens middleware.CallerResolver, log logger.Logger) *NotificationController {
	c := &NotificationController{
		melody:   m,
		notifier: notification.NewMelodyService(m),
		tokens:   tokens,
		logger:   log,
	}
	m.HandleConnect(func(s *melody.Session) {
		c.logger.Debug("websocket connected: user %v", s.Keys[notification.SessionUserID])
	})
	m.HandleDisconnect(func(s *melody.Session) {
		c.logger.Debug("websocket disconnected: user %v", s.Keys[notification.SessionUserID])
	})
	return c
}

// Connect nâng cấp lên websocket; token gửi qua ?token= vì trình duyệt không đặt được header
func (n *NotificationController) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Unauthorized(c)
		return
	}
	caller, err := n.tokens.GetCallerFromToken(token)
	if err != nil {
		response.AppError(c, err)
		return
	}
	keys := map[string]interface{}{
		notification.SessionUserID: caller.UserID,
		notification.SessionRole:   caller.Role,
	}
	if err := n.melody.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		n.logger.Error("websocket upgrade for user %d failed: %v", caller.UserID, err)
	}
}

type notifyRequest struct {
	Message string `json:"message" binding:"required"`
}

// NotifyAll gửi thông báo chung cho mọi người đang kết nối
func (n *NotificationController) NotifyAll(c *gin.Context) {
	var req notifyRequest
	if !bindJSON(c, &req) {
		return
	}
	caller := middleware.CallerFrom(c)
	msg := notification.NewMessageBuilder(notification.EventAnnouncement, 0).
		WithMessage("%s", req.Message).
		WithData(map[string]uint{"from": caller.UserID}).
		Build()
	if err := n.notifier.SendMessage(msg); err != nil {
		logger.LogError(n.logger, "notification", "NotifyAll", "broadcast", req.Message, err)
		response.ServerError(c)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Notification sent", req.Message)
}

// NotifyUser chỉ gửi tới các session của một user
func (n *NotificationController) NotifyUser(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	var req notifyRequest
	if !bindJSON(c, &req) {
		return
	}
	msg := notification.NewMessageBuilder(notification.EventAnnouncement, userID).
		WithMessage("%s", req.Message).
		Build()
	if err := n.notifier.SendTo(userID, msg); err != nil {
		logger.LogError(n.logger, "notification", "NotifyUser", "send", userID, err)
		response.ServerError(c)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Notification sent", msg)
}
