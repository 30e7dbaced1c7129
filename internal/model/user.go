package model

// User is a registered account. The password is an opaque credential
// compared by equality, preserved as-is from the flat-file records; this is
// deliberately not a security mechanism.
type User struct {
	Username string
	Password string
	Score    int
	Wins     int
	Defeats  int
}

// AddScore credits points to the user's cumulative score.
func (u *User) AddScore(points int) {
	u.Score += points
}

// RecordWin increments the user's win count.
func (u *User) RecordWin() {
	u.Wins++
}

// RecordDefeat increments the user's defeat count.
func (u *User) RecordDefeat() {
	u.Defeats++
}
