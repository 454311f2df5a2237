// Package meet provisions video meeting rooms. The default provider builds
// Jitsi rooms, which need no server-side account: a sufficiently random room
// name on the public instance is the whole provisioning step.
package meet

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// DefaultProvider names the backing video service.
const DefaultProvider = "jitsi"

// Room is a provisioned meeting location.
type Room struct {
	Provider string
	Name     string
	ID       string
	Link     string
	Password string
}

// Provisioner creates meeting rooms.
type Provisioner interface {
	Provision(courseCode string) (Room, error)
}

type jitsiProvisioner struct {
	baseURL string
}

// NewJitsiProvisioner builds rooms on the given Jitsi base URL, for example
// "https://meet.jit.si/".
func NewJitsiProvisioner(baseURL string) Provisioner {
	if baseURL == "" {
		baseURL = "https://meet.jit.si/"
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &jitsiProvisioner{baseURL: baseURL}
}

func (p *jitsiProvisioner) Provision(courseCode string) (Room, error) {
	suffix, err := randomHex(8)
	if err != nil {
		return Room{}, fmt.Errorf("failed to generate room id: %w", err)
	}

	password, err := randomHex(4)
	if err != nil {
		return Room{}, fmt.Errorf("failed to generate room password: %w", err)
	}

	name := fmt.Sprintf("%s-%s", slugify(courseCode), suffix)

	return Room{
		Provider: DefaultProvider,
		Name:     name,
		ID:       suffix,
		Link:     p.baseURL + name,
		Password: password,
	}, nil
}

func slugify(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, value)
	value = strings.Trim(value, "-")
	if value == "" {
		value = "class"
	}
	return value
}

func randomHex(bytes int) (string, error) {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
