package core

import "time"

// Request types

type CreatePositionRequest struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
	FEN  string `json:"fen" validate:"required,max=100"`
}

type BoardQuery struct {
	FEN    string `query:"fen" validate:"required,max=100"`
	Format string `query:"format" validate:"omitempty,oneof=ansi text svg png json"`
	Theme  string `query:"theme" validate:"omitempty,max=32"` // resolved by display.LookupTheme
	Size   int    `query:"size" validate:"omitempty,min=8,max=256"` // square edge for images
}

// Response types

type PositionResponse struct {
	PositionID string    `json:"positionId"`
	Name       string    `json:"name"`
	FEN        string    `json:"fen"` // placement field only
	CreatedAt  time.Time `json:"createdAt"`
}

type PositionListResponse struct {
	Positions []PositionResponse `json:"positions"`
	Count     int                `json:"count"`
}

// BoardResponse is the json rendering format
type BoardResponse struct {
	FEN     string      `json:"fen"`
	Squares [][]*Square `json:"squares"` // [rank][file], nil for empty
	Pieces  int         `json:"pieces"`
	Board   string      `json:"board"` // ASCII representation
}

type Square struct {
	Color string `json:"color"` // "white" or "black"
	Kind  string `json:"kind"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
