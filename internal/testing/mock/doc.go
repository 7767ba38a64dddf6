// Package mock provides scripted test doubles for the controller's
// external surfaces: the command runner and the systemd unit controller.
package mock
