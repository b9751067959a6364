package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"

	"taskdeck/internal/service"
)

// checkResponse converts a non-2xx response into a *service.APIError.
func checkResponse(res *http.Response) error {
	err := googleapi.CheckResponse(res)
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	return &service.APIError{Status: gerr.Code, Detail: detailOf(gerr)}
}

// detailOf extracts the server's message. FastAPI sends {"detail": "..."}
// for handled errors and {"detail": [{"msg": ...}]} for validation errors.
func detailOf(gerr *googleapi.Error) string {
	if gerr.Message != "" {
		return gerr.Message
	}

	var body struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal([]byte(gerr.Body), &body); err != nil {
		return ""
	}
	if body.Error != "" && len(body.Detail) == 0 {
		return body.Error
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg == "" {
				continue
			}
			if field := lastLoc(it.Loc); field != "" {
				msgs = append(msgs, field+": "+it.Msg)
			} else {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func lastLoc(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	s, ok := loc[len(loc)-1].(string)
	if !ok || s == "body" {
		return ""
	}
	return s
}
