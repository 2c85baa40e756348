package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// GenerateOrderNumber builds a human-readable order number, e.g. OM-20260829-A3F2C1.
// Uniqueness is backed by the unique index on orders.order_number; the random
// suffix makes same-day collisions practically impossible.
func GenerateOrderNumber() string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("OM-%s-%06d", time.Now().Format("20060102"), time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("OM-%s-%s", time.Now().Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}

// GenerateDeliveryCode returns a random numeric OTP of the given length.
// Codes are scoped to one store order, so global uniqueness is not required.
func GenerateDeliveryCode(length int) string {
	if length <= 0 {
		length = 6
	}
	var sb strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			sb.WriteByte('0' + byte(time.Now().UnixNano()%10))
			continue
		}
		sb.WriteByte('0' + byte(n.Int64()))
	}
	return sb.String()
}
