// Package response renders the minimal HTTP/1.1 responses of the dewpoint
// endpoint. Bodies are assembled by hand so their byte layout is fixed.
package response

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"dewpoint-server/internal/utils"
)

type Response struct {
	Status int
	Body   string
}

// Mould is the success response of the /{t}/{rh} route.
func Mould(dewpoint float64, mouldIndex int) Response {
	return Response{
		Status: http.StatusOK,
		Body:   `{"dewpoint":` + utils.FormatFloat(dewpoint) + `, "mould_index":` + strconv.Itoa(mouldIndex) + `}`,
	}
}

// Dewpoint is the success response of the /dewpoint/{t}/{rh} route. The
// value is quoted, unlike in Mould.
func Dewpoint(dewpoint float64) Response {
	return Response{
		Status: http.StatusOK,
		Body:   `{"dewpoint":"` + utils.FormatFloat(dewpoint) + `"}`,
	}
}

// Failure wraps message verbatim, without JSON escaping.
func Failure(status int, message string) Response {
	return Response{
		Status: status,
		Body:   `{"message":"` + message + `"}`,
	}
}

// Reason returns the reason phrase for status. Anything other than 200 and
// 400 is reported as an internal server error.
func Reason(status int) string {
	switch status {
	case http.StatusOK:
		return "OK"
	case http.StatusBadRequest:
		return "Bad Request"
	default:
		return "Internal Server Error"
	}
}

// Bytes returns the status line, a Content-Length header, a blank line and
// the body.
func (r Response) Bytes() []byte {
	return []byte(fmt.Sprintf("HTTP/1.1 %d %s\r\nContent-Length: %d\r\n\r\n%s",
		r.Status, Reason(r.Status), len(r.Body), r.Body))
}

func Write(w io.Writer, r Response) error {
	_, err := w.Write(r.Bytes())
	return err
}
