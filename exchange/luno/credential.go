package luno

import "encoding/base64"

//
// Credential holds a Luno API key pair. It is immutable once built and is only ever kept in
// process memory.
//
type Credential struct {
	id     string
	secret string
}

func NewCredential(id string, secret string) Credential {
	return Credential{
		id:     id,
		secret: secret,
	}
}

func (o Credential) ID() string {
	return o.id
}

func (o Credential) Secret() string {
	return o.secret
}

//
// BasicAuth returns the base64 token used in the "Authorization: Basic <token>" header.
//
func (o Credential) BasicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(o.id + ":" + o.secret))
}

func (o Credential) String() string {
	return "Credential{id: " + o.id + ", secret: <redacted>}"
}
