package domain

import (
	"strings"

	apperrors "github.com/spec-kit/item-lending/pkg/util"
)

// Game-specific attribute names.
const (
	AttrPlatform   = "platform"
	AttrLostPieces = "lost_pieces"
)

// ElectronicGame is a video game cartridge or disc for a given platform.
type ElectronicGame struct {
	Base
	platform string
}

// NewElectronicGame validates and builds an electronic game.
func NewElectronicGame(name string, price float64, platform string) (*ElectronicGame, error) {
	base, err := newBase(name, price)
	if err != nil {
		return nil, err
	}
	return &ElectronicGame{Base: base, platform: platform}, nil
}

func (g *ElectronicGame) Kind() ItemKind { return KindElectronicGame }

func (g *ElectronicGame) Platform() string { return g.platform }

func (g *ElectronicGame) SetPlatform(platform string) error {
	g.platform = platform
	return nil
}

func (g *ElectronicGame) Describe() string {
	return g.describePrefix("ELECTRONIC GAME") + ", " + g.platform
}

func (g *ElectronicGame) attributes() attributeTable {
	return g.commonAttributes().with(attributeTable{
		AttrPlatform: {get: g.Platform, set: g.SetPlatform},
	})
}

// BoardGame tracks the pieces reported lost. Pieces are never found again.
type BoardGame struct {
	Base
	lostPieces []string
}

// NewBoardGame validates and builds a board game with no lost pieces.
func NewBoardGame(name string, price float64) (*BoardGame, error) {
	base, err := newBase(name, price)
	if err != nil {
		return nil, err
	}
	return &BoardGame{Base: base}, nil
}

func (g *BoardGame) Kind() ItemKind { return KindBoardGame }

// AddLostPiece appends piece. Repeated names are kept as separate entries.
func (g *BoardGame) AddLostPiece(piece string) error {
	if strings.TrimSpace(piece) == "" {
		return apperrors.NewInvalidData("piece name required", nil)
	}
	g.lostPieces = append(g.lostPieces, piece)
	return nil
}

// LostPieces returns a copy of the recorded pieces in insertion order.
func (g *BoardGame) LostPieces() []string {
	return append([]string(nil), g.lostPieces...)
}

// Complete reports whether no piece has been lost.
func (g *BoardGame) Complete() bool { return len(g.lostPieces) == 0 }

func (g *BoardGame) Describe() string {
	if g.Complete() {
		return g.describePrefix("BOARD GAME") + ", COMPLETE"
	}
	return g.describePrefix("BOARD GAME") + ", MISSING PIECES: " + strings.Join(g.lostPieces, ", ")
}

func (g *BoardGame) attributes() attributeTable {
	return g.commonAttributes().with(attributeTable{
		AttrLostPieces: {get: func() string { return strings.Join(g.lostPieces, ",") }},
	})
}
