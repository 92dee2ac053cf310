package inventory

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// BatchCodeGenerator derives human-readable batch and usage codes.
// The three-digit random suffix keeps same-day codes apart but is not
// collision-free; the persistence layer's unique index is the actual
// uniqueness guarantee, and callers retry on conflict.
type BatchCodeGenerator struct {
	rng *rand.Rand
}

// NewBatchCodeGenerator creates a generator seeded from the clock
func NewBatchCodeGenerator() *BatchCodeGenerator {
	return NewBatchCodeGeneratorWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewBatchCodeGeneratorWithSource creates a generator with a caller-supplied
// random source, useful for deterministic tests.
func NewBatchCodeGeneratorWithSource(src rand.Source) *BatchCodeGenerator {
	return &BatchCodeGenerator{rng: rand.New(src)}
}

// Generate builds a batch code of the form YYYYMMDD-INITIALS[-SIZE]-NNN,
// where INITIALS are the uppercase first letters of the first three words
// of the material name and SIZE is the container size for packaging.
func (g *BatchCodeGenerator) Generate(materialName string, dateDelivered time.Time, containerSize string) string {
	parts := []string{
		dateDelivered.Format("20060102"),
		nameInitials(materialName),
	}
	if containerSize != "" {
		parts = append(parts, containerSize)
	}
	parts = append(parts, fmt.Sprintf("%03d", g.rng.Intn(1000)))
	return strings.Join(parts, "-")
}

// GenerateUsageCode builds a usage record code keyed on the date the
// material was used.
func (g *BatchCodeGenerator) GenerateUsageCode(materialName string, dateUsed time.Time) string {
	return g.Generate(materialName, dateUsed, "")
}

// NeedsRegeneration reports whether an edit to a batch requires a new code.
// Only the code-bearing fields trigger regeneration; unrelated edits keep
// the stored code.
func NeedsRegeneration(old, updated *Batch) bool {
	if old.MaterialName != updated.MaterialName {
		return true
	}
	if !old.DateDelivered.Equal(updated.DateDelivered) {
		return true
	}
	if old.Kind == MaterialKindPackaging && old.ContainerSize != updated.ContainerSize {
		return true
	}
	return false
}

// nameInitials returns the uppercase first letters of the first three words
func nameInitials(name string) string {
	words := strings.Fields(name)
	if len(words) > 3 {
		words = words[:3]
	}
	var sb strings.Builder
	for _, w := range words {
		first := []rune(w)[0]
		sb.WriteString(strings.ToUpper(string(first)))
	}
	return sb.String()
}
