package serializer

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var log = zap.NewNop()

// SetLogger sets the logger DBErr reports to.
func SetLogger(l *zap.Logger) {
	if l != nil {
		log = l
	}
}

// Response is the envelope of every JSON body the API writes.
type Response struct {
	Code  int         `json:"code"`
	Data  interface{} `json:"data,omitempty"`
	Msg   string      `json:"msg"`
	Error string      `json:"error,omitempty"`
}

var defaultMsg = map[int]string{
	http.StatusBadRequest:          "parameter error",
	http.StatusUnauthorized:        "authentication error",
	http.StatusForbidden:           "forbidden",
	http.StatusNotFound:            "not found",
	http.StatusConflict:            "conflict",
	http.StatusInternalServerError: "database error",
}

// Err builds an error envelope. The error detail is only exposed outside
// release mode.
func Err(code int, msg string, err error) Response {
	if msg == "" {
		msg = defaultMsg[code]
	}
	res := Response{Code: code, Msg: msg}
	if err != nil && gin.Mode() != gin.ReleaseMode {
		res.Error = fmt.Sprintf("%+v", err)
	}
	return res
}

// DBErr is the 500 response; err is logged.
func DBErr(msg string, err error) Response {
	res := Err(http.StatusInternalServerError, msg, err)
	if err != nil {
		log.Error(res.Msg, zap.Error(err))
	}
	return res
}

func ParamErr(msg string, err error) Response {
	return Err(http.StatusBadRequest, msg, err)
}

func AuthErr(msg string) Response {
	return Err(http.StatusUnauthorized, msg, nil)
}

func ForbiddenErr(msg string) Response {
	return Err(http.StatusForbidden, msg, nil)
}

func NotFoundErr(msg string) Response {
	return Err(http.StatusNotFound, msg, nil)
}

func ConflictErr(msg string) Response {
	return Err(http.StatusConflict, msg, nil)
}
