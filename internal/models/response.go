package models

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RsData is the envelope every API response is wrapped in.
type RsData struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

// NewRsData builds an envelope. At most one data value is used.
func NewRsData(code, msg string, data ...any) RsData {
	rs := RsData{Code: code, Msg: msg}
	if len(data) > 0 {
		rs.Data = data[0]
	}
	return rs
}

// StatusCode derives the HTTP status from the digits before the first '-'
// of the result code. Codes that do not start with a number map to 200.
func (r RsData) StatusCode() int {
	if status, ok := statusFromCode(r.Code); ok {
		return status
	}
	return fiber.StatusOK
}

// IsSuccess reports whether the envelope carries a 2xx result.
func (r RsData) IsSuccess() bool {
	status := r.StatusCode()
	return status >= 200 && status < 300
}

// Send writes the envelope with the status implied by its code.
func (r RsData) Send(c *fiber.Ctx) error {
	return c.Status(r.StatusCode()).JSON(r)
}

func statusFromCode(code string) (int, bool) {
	head, _, _ := strings.Cut(code, "-")
	status, err := strconv.Atoi(head)
	if err != nil || status < 100 || status > 599 {
		return 0, false
	}
	return status, true
}
