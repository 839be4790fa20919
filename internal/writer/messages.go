package writer

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	msgSaved          = "Orders saved."
	msgNothingChanged = "Orders are already up to date."
	msgTimeout        = "Saving orders took too long and was stopped."
	msgStartFailed    = "The order writer could not be started."
	msgNoOutput       = "The order writer stopped without reporting a result."
	msgMalformed      = "The order writer returned an unreadable result."
	msgWriteFailed    = "Orders could not be saved to the database."
	msgInvalidRequest = "The order data could not be read."
	msgUnexpected     = "An unexpected error occurred while saving orders."
)

var supportedLanguages = []language.Tag{
	language.English,
	language.Turkish,
}

var (
	messages = newCatalog()
	matcher  = language.NewMatcher(supportedLanguages)
)

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	translations := map[string]string{
		msgSaved:          "Siparişler kaydedildi.",
		msgNothingChanged: "Siparişler zaten güncel.",
		msgTimeout:        "Siparişlerin kaydedilmesi çok uzun sürdü ve durduruldu.",
		msgStartFailed:    "Sipariş kayıt işlemi başlatılamadı.",
		msgNoOutput:       "Sipariş kayıt işlemi sonuç bildirmeden sonlandı.",
		msgMalformed:      "Sipariş kayıt işlemi okunamayan bir sonuç döndürdü.",
		msgWriteFailed:    "Siparişler veritabanına kaydedilemedi.",
		msgInvalidRequest: "Sipariş verisi okunamadı.",
		msgUnexpected:     "Siparişler kaydedilirken beklenmeyen bir hata oluştu.",
	}
	for key, tr := range translations {
		if err := b.SetString(language.English, key, key); err != nil {
			panic(fmt.Sprintf("invalid message %q: %v", key, err))
		}
		if err := b.SetString(language.Turkish, key, tr); err != nil {
			panic(fmt.Sprintf("invalid turkish message %q: %v", key, err))
		}
	}
	return b
}

// printer returns a printer for the closest supported language, English when nothing matches
func printer(lang string) *message.Printer {
	tag := language.English
	if lang != "" {
		if _, index, confidence := matcher.Match(language.Make(lang)); confidence != language.No {
			tag = supportedLanguages[index]
		}
	}
	return message.NewPrinter(tag, message.Catalog(messages))
}

func localize(key string, lang string) string {
	return printer(lang).Sprintf(key)
}

// UserMessage returns the message shown to a user for a failed write
func UserMessage(err error, lang string) string {
	var key string
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		key = msgTimeout
	case errors.Is(err, ErrStartFailed):
		key = msgStartFailed
	case errors.Is(err, ErrNoOutput):
		key = msgNoOutput
	case errors.Is(err, ErrMalformedOutput):
		key = msgMalformed
	case errors.Is(err, ErrInvalidRequest):
		key = msgInvalidRequest
	case errors.Is(err, ErrWriteFailed):
		key = msgWriteFailed
	default:
		key = msgUnexpected
	}
	return localize(key, lang)
}
