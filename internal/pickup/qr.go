package pickup

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/skip2/go-qrcode"

	"ms-booths/internal/apperr"
	"ms-booths/internal/models"
)

// Ticket is what a pickup QR code carries once decrypted.
type Ticket struct {
	ReservationID int64     `json:"reservationId"`
	BoothID       string    `json:"boothId"`
	StudentNo     string    `json:"studentNo"`
	IssuedAt      time.Time `json:"issuedAt"`
}

func TicketFor(r models.Reservation, now time.Time) Ticket {
	return Ticket{
		ReservationID: r.ID,
		BoothID:       r.BoothID,
		StudentNo:     r.StudentNo,
		IssuedAt:      now.UTC(),
	}
}

type QRGenerator struct {
	secret []byte
	size   int
}

func NewQRGenerator(secret string) *QRGenerator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &QRGenerator{secret: hashed[:], size: 256}
}

// Seal encrypts the ticket into the URL-safe payload that is printed in the QR.
func (q *QRGenerator) Seal(t Ticket) (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	return encryptAES(data, q.secret)
}

// GenerateEncryptedQR renders the sealed ticket as a PNG.
func (q *QRGenerator) GenerateEncryptedQR(t Ticket) ([]byte, error) {
	payload, err := q.Seal(t)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(payload, qrcode.Medium, q.size)
}

// Open decrypts a scanned payload. Tampered or foreign payloads are rejected
// with InvalidArgument.
func (q *QRGenerator) Open(payload string) (Ticket, error) {
	data, err := decryptAES(payload, q.secret)
	if err != nil {
		return Ticket{}, apperr.Invalidf("invalid pickup code")
	}
	var t Ticket
	if err := json.Unmarshal(data, &t); err != nil {
		return Ticket{}, apperr.Invalidf("invalid pickup code")
	}
	if t.ReservationID <= 0 || t.BoothID == "" {
		return Ticket{}, apperr.Invalidf("invalid pickup code")
	}
	return t, nil
}

func encryptAES(data []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, data, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func decryptAES(payload string, key []byte) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(raw) < gcm.NonceSize() {
		return nil, fmt.Errorf("payload too short")
	}
	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
