package client

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrUnexpectedStatus is returned when an upstream answers with a non-2xx status
var ErrUnexpectedStatus = errors.New("unexpected status")

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return fmt.Errorf("%w %s: %s", ErrUnexpectedStatus, resp.Status, msg)
	}
	return fmt.Errorf("%w %s", ErrUnexpectedStatus, resp.Status)
}

// drain lets the transport reuse the connection
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
	resp.Body.Close()
}
