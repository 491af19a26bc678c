package services

import (
	"encoding/base64"
	"strings"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	// MenuURL is the address a diner lands on after scanning the table's code.
	MenuURL(tableID string) string
	// Generate renders url as an image payload ready to embed in a page.
	Generate(url string) (string, error)
}

type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) MenuURL(tableID string) string {
	return strings.TrimRight(g.BaseURL, "/") + "/menu/" + tableID
}

func (g DefaultQRGenerator) Generate(url string) (string, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
