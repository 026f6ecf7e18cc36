package main

import "encoding/json"

// Client -> Server message types
const (
	MsgMove       = "move"
	MsgEmitPing   = "emitPing"
	MsgShoot      = "shoot"
	MsgSetName    = "setPlayerName"
	MsgChat       = "chatMessage"
	MsgReportElim = "reportElimination"
	MsgRegister   = "register"
	MsgLogin      = "login"
	MsgAuth       = "auth"
	MsgProfile    = "profile"
)

// Server -> Client message types. The snapshot is the one exception to
// the JSON envelope scheme: it goes out as a raw msgpack binary frame.
const (
	MsgBootstrap         = "bootstrap"
	MsgEntityJoined      = "entityJoined"
	MsgEntityLeft        = "entityLeft"
	MsgEntityMoved       = "entityMoved"
	MsgPingEmitted       = "pingEmitted"
	MsgProjectileFired   = "projectileFired"
	MsgProjectileRemoved = "projectileRemoved"
	MsgEntityHit         = "entityHit"
	MsgEntityDied        = "entityDied"
	MsgEntityRespawned   = "entityRespawned"
	MsgPingOnCooldown    = "pingOnCooldown"
	MsgNameUpdated       = "nameUpdated"
	MsgAuthOK            = "authOk"
	MsgProfileData       = "profileData"
	MsgError             = "error"
)

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// MoveMsg is a position update from a client
type MoveMsg struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ShootMsg carries the firing angle in radians
type ShootMsg struct {
	Angle float64 `json:"angle"`
}

// SetNameMsg renames the sender's entity
type SetNameMsg struct {
	Name string `json:"name"`
}

// ChatInMsg is an inbound chat line
type ChatInMsg struct {
	Text string `json:"text"`
}

// ReportElimMsg is the client-trusted elimination report
type ReportElimMsg struct {
	EliminatorID string `json:"eliminatorId"`
}

// EntityState is the wire form of a player or bot
type EntityState struct {
	ID        string  `json:"id" msgpack:"id"`
	Name      string  `json:"n" msgpack:"n"`
	Color     string  `json:"c" msgpack:"c"`
	X         float64 `json:"x" msgpack:"x"`
	Y         float64 `json:"y" msgpack:"y"`
	Health    int     `json:"hp" msgpack:"hp"`
	MaxHealth int     `json:"mhp" msgpack:"mhp"`
	Alive     bool    `json:"a" msgpack:"a"`
	Bot       bool    `json:"b" msgpack:"b"`
	Score     int     `json:"sc" msgpack:"sc"`
	Kills     int     `json:"k" msgpack:"k"`
	Deaths    int     `json:"d" msgpack:"d"`
}

// ProjectileState is the wire form of a projectile
type ProjectileState struct {
	ID      string  `json:"id" msgpack:"id"`
	OwnerID string  `json:"o" msgpack:"o"`
	Color   string  `json:"c" msgpack:"c"`
	X       float64 `json:"x" msgpack:"x"`
	Y       float64 `json:"y" msgpack:"y"`
	VX      float64 `json:"vx" msgpack:"vx"`
	VY      float64 `json:"vy" msgpack:"vy"`
}

// LeaderboardEntry is one row of the top-10 board
type LeaderboardEntry struct {
	ID     string  `json:"id" msgpack:"id"`
	Name   string  `json:"n" msgpack:"n"`
	Score  int     `json:"sc" msgpack:"sc"`
	Kills  int     `json:"k" msgpack:"k"`
	Deaths int     `json:"d" msgpack:"d"`
	KD     float64 `json:"kd" msgpack:"kd"`
}

// Snapshot is the 10Hz full-state broadcast, msgpack-encoded
type Snapshot struct {
	Entities    []EntityState      `json:"e" msgpack:"e"`
	Projectiles []ProjectileState  `json:"pr" msgpack:"pr"`
	Leaderboard []LeaderboardEntry `json:"lb" msgpack:"lb"`
	Timestamp   int64              `json:"ts" msgpack:"ts"`
}

// BootstrapMsg is sent once to a freshly connected client
type BootstrapMsg struct {
	SelfID   string        `json:"selfId"`
	Self     EntityState   `json:"self"`
	Config   *WorldConfig  `json:"config"`
	Entities []EntityState `json:"entities"`
}

// EntityMovedMsg announces a position change
type EntityMovedMsg struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// EntityLeftMsg announces a departure with the final score
type EntityLeftMsg struct {
	ID         string `json:"id"`
	FinalScore int    `json:"finalScore"`
}

// PingEmittedMsg announces a sonar ping. The server keeps no ping state
// beyond this broadcast; clients animate the expanding ring themselves.
type PingEmittedMsg struct {
	OriginID  string  `json:"originId"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Timestamp int64   `json:"ts"`
	Color     string  `json:"c"`
	MaxRadius float64 `json:"maxRadius"`
}

// PingOnCooldownMsg rejects a premature ping
type PingOnCooldownMsg struct {
	RemainingMs int64 `json:"remainingMs"`
}

// EntityHitMsg announces damage applied to an entity
type EntityHitMsg struct {
	ID        string `json:"id"`
	Damage    int    `json:"damage"`
	Health    int    `json:"health"`
	ShooterID string `json:"shooterId"`
}

// EntityDiedMsg announces an elimination with the victim's final stats
type EntityDiedMsg struct {
	ID             string `json:"id"`
	EliminatorID   string `json:"eliminatorId,omitempty"`
	EliminatorName string `json:"eliminatorName,omitempty"`
	Kills          int    `json:"k"`
	Deaths         int    `json:"d"`
	Score          int    `json:"sc"`
}

// EntityRespawnedMsg announces a respawn at a fresh position
type EntityRespawnedMsg struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Health int     `json:"health"`
}

// NameUpdatedMsg announces a rename
type NameUpdatedMsg struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ChatRelayMsg is a chat line fanned out to everyone
type ChatRelayMsg struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Text      string `json:"text"`
	Timestamp int64  `json:"ts"`
}

// RegisterMsg creates an account
type RegisterMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginMsg authenticates with credentials
type LoginMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthMsg resumes a session with a stored token
type AuthMsg struct {
	Token string `json:"token"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	PlayerID int64  `json:"pid"`
}

// ProfileDataMsg carries lifetime stats for the account
type ProfileDataMsg struct {
	Username string  `json:"username"`
	Kills    int     `json:"kills"`
	Deaths   int     `json:"deaths"`
	Playtime float64 `json:"playtime"`
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}
