// README: Mock login session; any phone or email handle is accepted.
package session

import "time"

type Session struct {
	Token     string    `json:"token"`
	Handle    string    `json:"handle"`
	CreatedAt time.Time `json:"created_at"`
}
