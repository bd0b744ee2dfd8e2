// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package auth

// Request bodies for the auth server. GET bodies go through the
// lib/form struct-tag adapter, POST bodies through encoding/json; the
// json tags name the fields for both.

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// passwordResetRequest starts a reset. DeviceID is sent only when the
// client has a push device registered, enabling on-device recovery.
type passwordResetRequest struct {
	Address  string  `json:"address"`
	DeviceID *string `json:"deviceId,omitempty"`
}

type passwordResetCompleteRequest struct {
	Address   string `json:"address"`
	Password  string `json:"password"`
	AuthToken string `json:"authToken"`
}

type changePasswordRequest struct {
	Password string `json:"password"`
}

type addMobileDeviceRequest struct {
	DeviceID   string `json:"deviceId"`
	DeviceType string `json:"deviceType"`
}
