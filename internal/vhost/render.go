package vhost

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strconv"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Spec is one virtual-host definition as delivered on the peer channel.
type Spec struct {
	// Template is the base64-encoded vhost configuration template.
	Template string `yaml:"template"`

	// Port is the listen port, 1..65535.
	Port int `yaml:"port"`

	// Protocol, when set, names the vhost file (e.g. http, https) instead
	// of the port.
	Protocol string `yaml:"protocol,omitempty"`
}

// Validate checks the spec for values the activator cannot act on.
func (s Spec) Validate() error {
	if s.Template == "" {
		return fmt.Errorf("vhost template is empty")
	}
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("vhost port %d out of range [1,65535]", s.Port)
	}
	return nil
}

// SiteName derives the site identifier for this spec:
// {server_name}_{protocol}, falling back to the port when no protocol was
// given.
func (s Spec) SiteName(serverName string) string {
	protocol := s.Protocol
	if protocol == "" {
		protocol = strconv.Itoa(s.Port)
	}
	return serverName + "_" + protocol
}

// templateData is what a vhost template can reference.
type templateData struct {
	ServerName string
	Port       int
	Protocol   string
}

// Render decodes the spec's template and expands it as a text/template
// with the sprig function map. Templates without directives pass through
// byte-identical, so plain configurations are written verbatim.
func (s Spec) Render(serverName string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(s.Template)
	if err != nil {
		return "", fmt.Errorf("failed to decode vhost template: %w", err)
	}

	tmpl, err := template.New("vhost").Funcs(sprig.TxtFuncMap()).Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("failed to parse vhost template: %w", err)
	}

	var buf bytes.Buffer
	data := templateData{ServerName: serverName, Port: s.Port, Protocol: s.Protocol}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render vhost template: %w", err)
	}
	return buf.String(), nil
}
