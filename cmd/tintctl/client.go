package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/quic-go/quic-go/http3"
)

// sendToken delivers one command token as its own TCP connection, which is
// how the command server delimits tokens. Nothing is read back.
func sendToken(ctx context.Context, addr, token string, timeout time.Duration) error {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if _, err := conn.Write([]byte(token)); err != nil {
		return fmt.Errorf("failed to send %q: %w", token, err)
	}
	return nil
}

// modeStatus mirrors the server's GET /api/v1/mode body.
type modeStatus struct {
	Token string `json:"token"`
	Mode  string `json:"mode"`
	Label string `json:"label"`
}

// statusClient polls the HTTP API. With useHTTP3 the request goes over QUIC
// and the server certificate is not verified.
type statusClient struct {
	url    string
	client *http.Client
}

func newStatusClient(url string, useHTTP3 bool, timeout time.Duration) *statusClient {
	client := &http.Client{Timeout: timeout}
	if useHTTP3 {
		client.Transport = &http3.RoundTripper{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		}
	}
	return &statusClient{url: url, client: client}
}

func (c *statusClient) fetch(ctx context.Context) (modeStatus, error) {
	var status modeStatus

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return status, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return status, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return status, fmt.Errorf("unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return status, fmt.Errorf("failed to decode status: %w", err)
	}
	return status, nil
}
