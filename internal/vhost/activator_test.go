package vhost

import (
	"context"
	"encoding/base64"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"httpdctl/internal/events"
	"httpdctl/internal/state"
	"httpdctl/internal/systemd"
	"httpdctl/internal/testing/mock"
)

// fakeSites records writes and activations and can fail a named site.
type fakeSites struct {
	writes     map[string]string
	writeOrder []string
	enabled    []string
	failEnable string
	failWrite  string
}

func newFakeSites() *fakeSites {
	return &fakeSites{writes: make(map[string]string)}
}

func (f *fakeSites) WriteVhost(name, content string) (string, error) {
	if name == f.failWrite {
		return "", errors.New("disk full")
	}
	f.writes[name] = content
	f.writeOrder = append(f.writeOrder, name)
	return "/etc/apache2/sites-available/" + name + ".conf", nil
}

func (f *fakeSites) EnableSite(ctx context.Context, site string) error {
	if site == f.failEnable {
		return errors.New("a2ensite exited with code 1")
	}
	f.enabled = append(f.enabled, site)
	return nil
}

func encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func readyState() *state.Applied {
	st := state.NewApplied()
	st.Ready = true
	return st
}

func TestActivateVhosts_DeferredWhenNotReady(t *testing.T) {
	sites := newFakeSites()
	unit := mock.NewUnitController()
	a := NewActivator(sites, unit, "apache2")

	ev := events.NewVhostConfigChanged("peer/0", "- template: "+encode("Listen 80")+"\n  port: 80\n")
	outcome, activated, err := a.ActivateVhosts(context.Background(), state.NewApplied(), "web", ev)

	require.NoError(t, err)
	assert.Equal(t, events.OutcomeDeferred, outcome)
	assert.Empty(t, activated)
	assert.Empty(t, sites.writes, "no filesystem writes while deferred")
	assert.Empty(t, unit.Commands(), "no commands while deferred")
}

func TestActivateVhosts_SkippedWithoutPeer(t *testing.T) {
	a := NewActivator(newFakeSites(), mock.NewUnitController(), "apache2")

	ev := events.NewVhostConfigChanged("", "- template: x\n  port: 80\n")
	outcome, _, err := a.ActivateVhosts(context.Background(), readyState(), "web", ev)

	require.NoError(t, err)
	assert.Equal(t, events.OutcomeSkipped, outcome)
}

func TestActivateVhosts_SkippedWithEmptyPayload(t *testing.T) {
	sites := newFakeSites()
	unit := mock.NewUnitController()
	a := NewActivator(sites, unit, "apache2")

	for _, payload := range []string{"", "   \n"} {
		outcome, activated, err := a.ActivateVhosts(context.Background(), readyState(), "web", events.NewVhostConfigChanged("peer/0", payload))
		require.NoError(t, err)
		assert.Equal(t, events.OutcomeSkipped, outcome)
		assert.Empty(t, activated)
	}
	assert.Empty(t, sites.writes)
	assert.Equal(t, 0, unit.CountCommand(systemd.CommandReload))
}

func TestActivateVhosts_Batch(t *testing.T) {
	sites := newFakeSites()
	unit := mock.NewUnitController()
	a := NewActivator(sites, unit, "apache2")

	payload := "- template: " + encode("Listen 8080") + "\n  port: 8080\n" +
		"- template: " + encode("Listen 443") + "\n  port: 443\n  protocol: https\n"

	outcome, activated, err := a.ActivateVhosts(context.Background(), readyState(), "web", events.NewVhostConfigChanged("peer/0", payload))
	require.NoError(t, err)

	assert.Equal(t, events.OutcomeApplied, outcome)
	assert.Equal(t, []string{"web_8080", "web_https"}, activated)
	assert.Equal(t, []string{"web_8080", "web_https"}, sites.writeOrder, "activation follows input order")
	assert.Equal(t, []string{"web_8080", "web_https"}, sites.enabled)
	assert.Equal(t, "Listen 8080", sites.writes["web_8080"])
	assert.Equal(t, "Listen 443", sites.writes["web_https"])
	assert.Equal(t, 1, unit.CountCommand(systemd.CommandReload), "exactly one batched reload")
}

func TestActivateVhosts_FailureAbortsRemainingBatch(t *testing.T) {
	sites := newFakeSites()
	sites.failEnable = "web_2"
	unit := mock.NewUnitController()
	a := NewActivator(sites, unit, "web-unit")

	payload := "- template: " + encode("one") + "\n  port: 1\n  protocol: \"1\"\n" +
		"- template: " + encode("two") + "\n  port: 2\n  protocol: \"2\"\n" +
		"- template: " + encode("three") + "\n  port: 3\n  protocol: \"3\"\n"

	_, activated, err := a.ActivateVhosts(context.Background(), readyState(), "web", events.NewVhostConfigChanged("peer/0", payload))
	require.Error(t, err)

	// web_1 stays activated, web_3 is never attempted, no reload fires.
	assert.Equal(t, []string{"web_1"}, activated)
	assert.Equal(t, []string{"web_1"}, sites.enabled)
	assert.NotContains(t, sites.writes, "web_3")
	assert.Equal(t, 0, unit.CountCommand(systemd.CommandReload))
}

func TestActivateVhosts_InvalidPayload(t *testing.T) {
	a := NewActivator(newFakeSites(), mock.NewUnitController(), "apache2")

	_, _, err := a.ActivateVhosts(context.Background(), readyState(), "web", events.NewVhostConfigChanged("peer/0", "not: [valid"))
	require.Error(t, err)
}

func TestActivateVhosts_PortValidation(t *testing.T) {
	a := NewActivator(newFakeSites(), mock.NewUnitController(), "apache2")

	for _, port := range []int{0, -1, 65536} {
		payload := "- template: " + encode("x") + "\n  port: " + strconv.Itoa(port) + "\n"
		_, _, err := a.ActivateVhosts(context.Background(), readyState(), "web", events.NewVhostConfigChanged("peer/0", payload))
		require.Error(t, err, "port %d must be rejected", port)
	}
}
