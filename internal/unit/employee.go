package unit

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Employee is an operator identified by an RFID card.
type Employee struct {
	CardID   string `json:"rfid_card_id" yaml:"rfid_card_id"`
	Name     string `json:"name" yaml:"name"`
	Position string `json:"position" yaml:"position"`
}

// PassportCode replaces the operator's identity in published data: the
// sha256 of the space-joined card id, name, and position.
func (e Employee) PassportCode() string {
	sum := sha256.Sum256([]byte(strings.Join([]string{e.CardID, e.Name, e.Position}, " ")))
	return hex.EncodeToString(sum[:])
}
