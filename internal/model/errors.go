package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Room errors
	ErrRoomExists   = errors.New("room already exists")
	ErrRoomNotFound = errors.New("no such room")
	ErrRoomFull     = errors.New("room is full")
	ErrNotInRoom    = errors.New("player is not in a room")

	// Phrase errors
	ErrPhraseNotFound = errors.New("phrase not found")
	ErrCorpusEmpty    = errors.New("phrase corpus is empty")
)
