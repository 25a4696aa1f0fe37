package dto

// PunchRequest là vị trí gửi lên khi check-in/check-out
type PunchRequest struct {
	Lat   *float64 `json:"lat" binding:"required,min=-90,max=90"`
	Lng   *float64 `json:"lng" binding:"required,min=-180,max=180"`
	Photo string   `json:"photo" binding:"omitempty,url"`
}

type UpdateAttendanceStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}
