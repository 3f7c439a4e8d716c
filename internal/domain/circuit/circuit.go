package circuit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Kind distinguishes multi-day circuits from single-day excursions.
type Kind string

const (
	KindCircuit   Kind = "circuit"
	KindExcursion Kind = "excursion"
)

// Circuit is the aggregate root for a sellable tour product. Prices are
// per billable traveler, in XOF.
type Circuit struct {
	id              uuid.UUID
	slug            string
	kind            Kind
	titleFR         string
	titleEN         string
	descriptionFR   string
	descriptionEN   string
	priceXOF        int64
	minParticipants int
	maxParticipants int
	durationDays    int
	isActive        bool
	createdAt       time.Time
	updatedAt       time.Time
}

// NewCircuit creates a new circuit. The slug is derived from the French
// title; uniqueness is enforced by the repository.
func NewCircuit(
	kind Kind,
	titleFR, titleEN, descriptionFR, descriptionEN string,
	priceXOF int64,
	minParticipants, maxParticipants, durationDays int,
) (*Circuit, error) {
	if kind != KindCircuit && kind != KindExcursion {
		return nil, fmt.Errorf("invalid circuit kind: %s", kind)
	}
	if titleFR == "" {
		return nil, fmt.Errorf("title_fr is required")
	}
	if priceXOF <= 0 {
		return nil, fmt.Errorf("price must be positive")
	}
	if minParticipants < 1 {
		return nil, fmt.Errorf("min_participants must be >= 1")
	}
	if maxParticipants < minParticipants {
		return nil, fmt.Errorf("max_participants must be >= min_participants")
	}
	if durationDays < 1 {
		return nil, fmt.Errorf("duration_days must be >= 1")
	}
	if kind == KindExcursion && durationDays != 1 {
		return nil, fmt.Errorf("an excursion lasts exactly one day")
	}

	now := time.Now().UTC()
	return &Circuit{
		id:              uuid.New(),
		slug:            slug.MakeLang(titleFR, "fr"),
		kind:            kind,
		titleFR:         titleFR,
		titleEN:         titleEN,
		descriptionFR:   descriptionFR,
		descriptionEN:   descriptionEN,
		priceXOF:        priceXOF,
		minParticipants: minParticipants,
		maxParticipants: maxParticipants,
		durationDays:    durationDays,
		isActive:        true,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds a Circuit from persistence.
func Reconstruct(
	id uuid.UUID,
	slugValue string,
	kind Kind,
	titleFR, titleEN, descriptionFR, descriptionEN string,
	priceXOF int64,
	minParticipants, maxParticipants, durationDays int,
	isActive bool,
	createdAt, updatedAt time.Time,
) *Circuit {
	return &Circuit{
		id: id, slug: slugValue, kind: kind,
		titleFR: titleFR, titleEN: titleEN,
		descriptionFR: descriptionFR, descriptionEN: descriptionEN,
		priceXOF: priceXOF, minParticipants: minParticipants,
		maxParticipants: maxParticipants, durationDays: durationDays,
		isActive: isActive, createdAt: createdAt, updatedAt: updatedAt,
	}
}

// UpdateDetails replaces the editable fields. The slug is kept stable so
// published links keep working after a retitle.
func (c *Circuit) UpdateDetails(
	titleFR, titleEN, descriptionFR, descriptionEN string,
	priceXOF int64,
	minParticipants, maxParticipants, durationDays int,
) error {
	if titleFR == "" {
		return fmt.Errorf("title_fr is required")
	}
	if priceXOF <= 0 {
		return fmt.Errorf("price must be positive")
	}
	if minParticipants < 1 || maxParticipants < minParticipants {
		return fmt.Errorf("invalid participant bounds")
	}
	if durationDays < 1 {
		return fmt.Errorf("duration_days must be >= 1")
	}

	c.titleFR = titleFR
	c.titleEN = titleEN
	c.descriptionFR = descriptionFR
	c.descriptionEN = descriptionEN
	c.priceXOF = priceXOF
	c.minParticipants = minParticipants
	c.maxParticipants = maxParticipants
	c.durationDays = durationDays
	c.updatedAt = time.Now().UTC()
	return nil
}

// AcceptsParticipants reports whether a traveler count fits the bounds.
func (c *Circuit) AcceptsParticipants(count int) bool {
	return count >= c.minParticipants && count <= c.maxParticipants
}

// Deactivate hides the circuit from the public catalogue.
func (c *Circuit) Deactivate() {
	c.isActive = false
	c.updatedAt = time.Now().UTC()
}

// Getters.
func (c *Circuit) ID() uuid.UUID        { return c.id }
func (c *Circuit) Slug() string         { return c.slug }
func (c *Circuit) Kind() Kind           { return c.kind }
func (c *Circuit) TitleFR() string      { return c.titleFR }
func (c *Circuit) TitleEN() string      { return c.titleEN }
func (c *Circuit) DescriptionFR() string { return c.descriptionFR }
func (c *Circuit) DescriptionEN() string { return c.descriptionEN }
func (c *Circuit) PriceXOF() int64      { return c.priceXOF }
func (c *Circuit) MinParticipants() int { return c.minParticipants }
func (c *Circuit) MaxParticipants() int { return c.maxParticipants }
func (c *Circuit) DurationDays() int    { return c.durationDays }
func (c *Circuit) IsActive() bool       { return c.isActive }
func (c *Circuit) CreatedAt() time.Time { return c.createdAt }
func (c *Circuit) UpdatedAt() time.Time { return c.updatedAt }
