package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RejectedError is a definitive rejection from the OTP provider (bad phone,
// wrong code), as opposed to a transport failure worth retrying.
type RejectedError struct {
	Detail string
}

func (e *RejectedError) Error() string { return e.Detail }

// OTP relays one-time passwords through the SMSMKT portal.
type OTP struct {
	baseURL    string
	apiKey     string
	secretKey  string
	projectKey string
	http       *http.Client
}

// NewOTP builds the OTP gateway client.
func NewOTP(baseURL, apiKey, secretKey, projectKey string, timeout time.Duration) *OTP {
	return &OTP{
		baseURL:    baseURL,
		apiKey:     apiKey,
		secretKey:  secretKey,
		projectKey: projectKey,
		http:       &http.Client{Timeout: timeout},
	}
}

type otpResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
	Result struct {
		Token string `json:"token"`
	} `json:"result"`
}

// Send requests an OTP for the phone number and returns the provider token
// needed for validation.
func (o *OTP) Send(phone string) (string, error) {
	out, err := o.post("/api/otp-send", map[string]string{
		"project_key": o.projectKey,
		"phone":       phone,
	})
	if err != nil {
		return "", err
	}
	if out.Code != "000" {
		return "", &RejectedError{Detail: out.Detail}
	}
	return out.Result.Token, nil
}

// Validate checks the OTP the user typed against the token from Send.
func (o *OTP) Validate(otp, token string) error {
	out, err := o.post("/api/otp-validate", map[string]string{
		"otp_code": otp,
		"token":    token,
		"ref_code": "",
	})
	if err != nil {
		return err
	}
	if out.Code != "000" {
		return &RejectedError{Detail: out.Detail}
	}
	return nil
}

func (o *OTP) post(path string, payload map[string]string) (*otpResponse, error) {
	body, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, o.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api_key", o.apiKey)
	req.Header.Set("secret_key", o.secretKey)
	resp, err := o.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("otp gateway: %w", err)
	}
	defer resp.Body.Close()
	var out otpResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("otp gateway decode: %w", err)
	}
	return &out, nil
}
