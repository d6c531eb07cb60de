package checkoutControllers

import (
	"crypto/rand"
	"io"

	"gorm.io/gorm"

	"github.com/storelabs/storefront-api/apperrors"
	"github.com/storelabs/storefront-api/models"
)

const (
	orderNumberLength      = 10
	orderNumberAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxOrderNumberAttempts = 5
)

func newOrderNumber() (string, error) {
	return orderNumberFrom(rand.Reader)
}

func orderNumberFrom(r io.Reader) (string, error) {
	// 256 is not a multiple of the alphabet size, so bytes past the
	// largest multiple are rejected to keep every character equally
	// likely
	const rejectFrom = 256 - 256%len(orderNumberAlphabet)

	out := make([]byte, 0, orderNumberLength)
	var b [1]byte
	for len(out) < orderNumberLength {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return "", err
		}
		if int(b[0]) >= rejectFrom {
			continue
		}
		out = append(out, orderNumberAlphabet[int(b[0])%len(orderNumberAlphabet)])
	}
	return string(out), nil
}

// reserveOrderNumber generates an order number not yet present in the
// orders table, regenerating on collision up to a fixed bound. The
// unique index on order_number remains the final arbiter for checkouts
// racing on the same number.
func reserveOrderNumber(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		number, err := newOrderNumber()
		if err != nil {
			return "", err
		}

		var count int64
		if err := tx.Model(&models.Order{}).
			Where("order_number = ?", number).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}
	}
	return "", apperrors.ErrOrderNumberConflict
}
