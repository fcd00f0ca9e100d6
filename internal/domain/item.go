package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/spec-kit/item-lending/pkg/util"
)

// ItemKind enumerates the catalog variants.
type ItemKind string

const (
	KindElectronicGame ItemKind = "ELECTRONIC_GAME"
	KindBoardGame      ItemKind = "BOARD_GAME"
	KindMovieDisc      ItemKind = "MOVIE_DISC"
	KindSeriesDisc     ItemKind = "SERIES_DISC"
	KindShowDisc       ItemKind = "SHOW_DISC"
)

// Attribute names shared by every variant.
const (
	AttrName   = "name"
	AttrPrice  = "price"
	AttrStatus = "status"
)

// Item is implemented only by the variants in this package.
type Item interface {
	Kind() ItemKind
	Name() string
	Price() float64
	OnLoan() bool
	Describe() string

	base() *Base
	attributes() attributeTable
}

// Base holds the fields every variant carries.
type Base struct {
	name   string
	price  float64
	onLoan bool
}

func newBase(name string, price float64) (Base, error) {
	if err := validateName(name); err != nil {
		return Base{}, err
	}
	if err := validatePrice(price); err != nil {
		return Base{}, err
	}
	return Base{name: name, price: price}, nil
}

func (b *Base) Name() string { return b.name }

func (b *Base) Price() float64 { return b.price }

func (b *Base) OnLoan() bool { return b.onLoan }

func (b *Base) base() *Base { return b }

func (b *Base) statusLabel() string {
	if b.onLoan {
		return "On loan"
	}
	return "Available"
}

// rename changes the item name. Uniqueness within the owner is checked by User.SetItemAttribute.
func (b *Base) rename(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	b.name = name
	return nil
}

// SetPrice replaces the price.
func (b *Base) SetPrice(price float64) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	b.price = price
	return nil
}

// MarkOnLoan flips the item to on-loan. Only the loan ledger calls it.
func MarkOnLoan(it Item) error {
	b := it.base()
	if b.onLoan {
		return apperrors.NewOperationNotAllowed("item is on loan", map[string]any{"item": b.name})
	}
	b.onLoan = true
	return nil
}

// MarkAvailable flips the item back after a matched return.
func MarkAvailable(it Item) {
	it.base().onLoan = false
}

func (b *Base) commonAttributes() attributeTable {
	return attributeTable{
		AttrName: {
			get: func() string { return b.name },
			set: b.rename,
		},
		AttrPrice: {
			get: func() string { return strconv.FormatFloat(b.price, 'f', -1, 64) },
			set: func(v string) error {
				price, err := parsePrice(v)
				if err != nil {
					return err
				}
				return b.SetPrice(price)
			},
		},
		AttrStatus: {
			get: b.statusLabel,
		},
	}
}

func (b *Base) describePrefix(label string) string {
	return fmt.Sprintf("%s: %s, $%.2f, %s", label, b.name, b.price, b.statusLabel())
}

// ItemKey is the narrow identity used to de-duplicate listings: variant plus name.
func ItemKey(it Item) string {
	return string(it.Kind()) + "|" + it.Name()
}

// SameItem reports whether a and b are the same variant with the same name.
func SameItem(a, b Item) bool {
	return ItemKey(a) == ItemKey(b)
}

// Attribute returns the named attribute rendered as a string.
func Attribute(it Item, name string) (string, error) {
	attr, ok := it.attributes()[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", unknownAttribute(it, name)
	}
	return attr.get(), nil
}

// SetAttribute coerces value and applies it through the attribute's typed setter.
// Nothing is changed when it fails.
func SetAttribute(it Item, name, value string) error {
	key := strings.ToLower(strings.TrimSpace(name))
	attr, ok := it.attributes()[key]
	if !ok {
		return unknownAttribute(it, name)
	}
	if attr.set == nil {
		return apperrors.NewOperationNotAllowed("attribute is read-only", map[string]any{"attribute": key})
	}
	return attr.set(value)
}

// AttributeNames lists the attributes the variant exposes.
func AttributeNames(it Item) []string {
	table := it.attributes()
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	return names
}

type attribute struct {
	get func() string
	set func(string) error
}

type attributeTable map[string]attribute

func (t attributeTable) with(extra attributeTable) attributeTable {
	for k, v := range extra {
		t[k] = v
	}
	return t
}

func unknownAttribute(it Item, name string) error {
	return apperrors.NewItemNotFound("attribute not found", map[string]any{
		"item":      it.Name(),
		"attribute": name,
	})
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewInvalidData("item name required", nil)
	}
	return nil
}

func validatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return apperrors.NewInvalidData("invalid price", map[string]any{"price": price})
	}
	return nil
}

func validateNonNegative(attr string, v int) error {
	if v < 0 {
		return apperrors.NewInvalidData("invalid "+attr, map[string]any{attr: v})
	}
	return nil
}

func parsePrice(v string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, apperrors.NewInvalidData("invalid price", map[string]any{"price": v})
	}
	return price, nil
}

func parseCount(attr, v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, apperrors.NewInvalidData("invalid "+attr, map[string]any{attr: v})
	}
	return n, nil
}

// intSetter builds a string setter for a typed int setter.
func intSetter(attr string, set func(int) error) func(string) error {
	return func(v string) error {
		n, err := parseCount(attr, v)
		if err != nil {
			return err
		}
		return set(n)
	}
}
