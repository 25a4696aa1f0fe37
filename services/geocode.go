package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

const goongBaseURL = "https://rsapi.goong.io"

// Geocoder đổi tọa độ chấm công thành địa chỉ hiển thị
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// geocodingResponseGoong định nghĩa cấu trúc phản hồi từ Goong
type geocodingResponseGoong struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status string `json:"status"`
}

// GoongGeocoder gọi Goong reverse geocoding API
type GoongGeocoder struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewGoongGeocoder(apiKey string) *GoongGeocoder {
	return &GoongGeocoder{
		BaseURL: goongBaseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (g *GoongGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	if g.APIKey == "" {
		return "", errors.New("goong api key not configured")
	}
	latlng := strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
	apiURL := fmt.Sprintf("%s/Geocode?latlng=%s&api_key=%s", g.BaseURL, url.QueryEscape(latlng), url.QueryEscape(g.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var response geocodingResponseGoong
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(response.Results) == 0 {
		return "", errors.New("no results found")
	}
	// Chọn kết quả đầu tiên
	return response.Results[0].FormattedAddress, nil
}

const earthRadiusKm = 6371.0

// HaversineKm là khoảng cách đường tròn lớn giữa hai tọa độ, tính bằng km
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// Geofence là vùng văn phòng cho phép chấm công
type Geofence struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

// Contains reports whether (lat, lng) is within the radius. A zero radius
// disables the check.
func (g Geofence) Contains(lat, lng float64) (bool, float64) {
	if g.RadiusKm <= 0 {
		return true, 0
	}
	distance := HaversineKm(g.Lat, g.Lng, lat, lng)
	return distance <= g.RadiusKm, distance
}
