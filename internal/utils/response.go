package utils

import "github.com/labstack/echo/v4"

// Envelope is the JSON body shape shared by every endpoint.
type Envelope struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

// statusMessages are the default per-status descriptions used when a handler
// does not supply its own message.
var statusMessages = map[int]string{
	200: "OK - The request has succeeded.",
	201: "Created - The request has been fulfilled and has resulted in one or more new resources being created.",
	204: "No Content - The server has successfully fulfilled the request and there is no additional content to send in the response.",
	400: "Bad Request - The server could not understand the request due to invalid syntax.",
	401: "Unauthorized - The request requires user authentication.",
	403: "Forbidden - The server understood the request but refuses to authorize it.",
	404: "Not Found - The server can not find the requested resource.",
	500: "Internal Server Error - The server encountered an unexpected condition that prevented it from fulfilling the request.",
	503: "Service Unavailable - The server is currently unable to handle the request due to a temporary overload or scheduled maintenance.",
}

// JSON writes the standard response envelope with the given status code.
func JSON(c echo.Context, code int, data interface{}, message string) error {
	if message == "" {
		message = statusMessages[code]
	}
	return c.JSON(code, Envelope{Code: code, Data: data, Message: message})
}
