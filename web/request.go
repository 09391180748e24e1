package web

import (
	"encoding/json"
	"github.com/pkg/errors"
	"shm/common"
	"shm/hashmap"
)

// RectangleRequest is a range in lon/lat. X and Y are the minimum longitude and latitude. Pointers distinguish
// missing fields from zero values.
type RectangleRequest struct {
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

// parseRectangle turns the JSON data into a rectangle. Every malformed input results in an error wrapping
// hashmap.ErrInvalidRectangle.
func parseRectangle(data []byte) (*common.Rectangle, error) {
	var request *RectangleRequest
	err := json.Unmarshal(data, &request)
	if err != nil {
		return nil, errors.Wrapf(hashmap.ErrInvalidRectangle, "Unable to parse range: %s", err.Error())
	}

	if request == nil || request.X == nil || request.Y == nil || request.Width == nil || request.Height == nil {
		return nil, errors.Wrap(hashmap.ErrInvalidRectangle, "Range must contain the fields x, y, width and height")
	}

	return &common.Rectangle{
		X:      *request.X,
		Y:      *request.Y,
		Width:  *request.Width,
		Height: *request.Height,
	}, nil
}
