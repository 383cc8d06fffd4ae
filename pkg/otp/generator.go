package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Generator issues short-lived numeric verification codes.
type Generator interface {
	RandomCode() (string, error)
}

const (
	codeMin = 100000
	codeMax = 999999
)

// NumericGenerator draws uniformly from [100000, 999999], so codes are
// always six digits with no leading zero to collapse.
type NumericGenerator struct{}

func NewNumericGenerator() *NumericGenerator {
	return &NumericGenerator{}
}

func (g *NumericGenerator) RandomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", fmt.Errorf("random code generation failed: %w", err)
	}

	return fmt.Sprintf("%06d", n.Int64()+codeMin), nil
}
