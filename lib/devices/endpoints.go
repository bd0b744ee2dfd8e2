// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package devices

import "github.com/ubiqweus/qbiq-client/lib/apiclient"

const (
	// DefaultBaseURL is the production device API server.
	DefaultBaseURL = "https://api.ubiqweus.com"

	// APIVersion is the path prefix every endpoint lives under.
	APIVersion = "v1"
)

var (
	endpointGroupList         = apiclient.Get("/group/list")
	endpointGroupCreate       = apiclient.Post("/group/create")
	endpointGroupUpdate       = apiclient.Post("/group/update")
	endpointGroupDelete       = apiclient.Post("/group/delete")
	endpointGroupDeviceAdd    = apiclient.Post("/group/device/add")
	endpointGroupDeviceRemove = apiclient.Post("/group/device/remove")
	endpointGroupDeviceList   = apiclient.Get("/group/device/list")

	endpointDeviceList       = apiclient.Get("/device/list")
	endpointDeviceRegister   = apiclient.Post("/device/register")
	endpointDeviceUnregister = apiclient.Post("/device/unregister")
	endpointDeviceInfo       = apiclient.Get("/device/info")
	endpointDeviceShare      = apiclient.Post("/device/share")
	endpointDeviceShareToken = apiclient.Post("/device/share/token")
	endpointDeviceUnshare    = apiclient.Post("/device/unshare")
	endpointDeviceUpdate     = apiclient.Post("/device/update")
	endpointDeviceObs        = apiclient.Get("/device/obs")
	endpointDeviceObsDelete  = apiclient.Post("/device/obs/delete")
	endpointDeviceLimits     = apiclient.Post("/device/limits")
)
