// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import "github.com/ubiqweus/qbiq-client/lib/apiclient"

// DefaultBaseURL is the production auth server.
const DefaultBaseURL = "https://auth.ubiqweus.com"

var (
	endpointRegister              = apiclient.Post("/api/v1/register")
	endpointLogin                 = apiclient.Get("/api/v1/login")
	endpointStartPasswordReset    = apiclient.Get("/api/v1/passreset")
	endpointCompletePasswordReset = apiclient.Post("/api/v1/passreset")
	endpointMe                    = apiclient.Get("/api/v1/a/me")
	endpointChangePassword        = apiclient.Post("/api/v1/a/changepassword")
	endpointGetMeta               = apiclient.Get("/api/v1/a/mydata")
	endpointPutMeta               = apiclient.Post("/api/v1/a/mydata")
	endpointAddDeviceID           = apiclient.Post("/api/v1/a/mobile/add")
	endpointOAuthUpgrade          = apiclient.Get("/api/v1/oauth/upgrade")
)
