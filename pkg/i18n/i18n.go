// Package i18n localizes user-facing error messages.
package i18n

import (
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Message ids double as the stable error codes in HTTP error bodies.
const (
	InvalidInput          = "invalid_input"
	InvalidCoordinate     = "invalid_coordinate"
	InvalidRadius         = "invalid_radius"
	MerchantNotFound      = "merchant_not_found"
	CardNotFound          = "card_not_found"
	CategoryNotFound      = "category_not_found"
	CardAlreadyExists     = "card_already_exists"
	CategoryAlreadyExists = "category_already_exists"
	UnknownCacheSlot      = "unknown_cache_slot"
	StoreUnavailable      = "store_unavailable"
	InternalError         = "internal_error"
)

var english = []*goi18n.Message{
	{ID: InvalidInput, Other: "The request is malformed."},
	{ID: InvalidCoordinate, Other: "Latitude must be within [-90, 90] and longitude within [-180, 180]."},
	{ID: InvalidRadius, Other: "Radius must be a positive number of meters."},
	{ID: MerchantNotFound, Other: "Merchant not found."},
	{ID: CardNotFound, Other: "Card not found."},
	{ID: CategoryNotFound, Other: "Category not found."},
	{ID: CardAlreadyExists, Other: "A card with this name already exists."},
	{ID: CategoryAlreadyExists, Other: "A category with this name already exists."},
	{ID: UnknownCacheSlot, Other: "Unknown cache slot."},
	{ID: StoreUnavailable, Other: "The service is temporarily unavailable. Please try again later."},
	{ID: InternalError, Other: "An unexpected error occurred."},
}

var korean = []*goi18n.Message{
	{ID: InvalidInput, Other: "잘못된 요청입니다."},
	{ID: InvalidCoordinate, Other: "위도는 -90~90, 경도는 -180~180 범위여야 합니다."},
	{ID: InvalidRadius, Other: "반경은 0보다 큰 미터 값이어야 합니다."},
	{ID: MerchantNotFound, Other: "가맹점을 찾을 수 없습니다."},
	{ID: CardNotFound, Other: "카드를 찾을 수 없습니다."},
	{ID: CategoryNotFound, Other: "카테고리를 찾을 수 없습니다."},
	{ID: CardAlreadyExists, Other: "같은 이름의 카드가 이미 있습니다."},
	{ID: CategoryAlreadyExists, Other: "같은 이름의 카테고리가 이미 있습니다."},
	{ID: UnknownCacheSlot, Other: "알 수 없는 캐시 슬롯입니다."},
	{ID: StoreUnavailable, Other: "일시적으로 서비스를 이용할 수 없습니다. 잠시 후 다시 시도해 주세요."},
	{ID: InternalError, Other: "예기치 않은 오류가 발생했습니다."},
}

type Translator struct {
	bundle *goi18n.Bundle
}

func NewTranslator() (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	if err := bundle.AddMessages(language.English, english...); err != nil {
		return nil, err
	}
	if err := bundle.AddMessages(language.Korean, korean...); err != nil {
		return nil, err
	}
	return &Translator{bundle: bundle}, nil
}

// Translate renders id for the given Accept-Language header value, falling
// back to English and finally to the id itself.
func (t *Translator) Translate(acceptLanguage, id string) string {
	loc := goi18n.NewLocalizer(t.bundle, acceptLanguage)
	msg, err := loc.Localize(&goi18n.LocalizeConfig{MessageID: id})
	if err != nil || msg == "" {
		return id
	}
	return msg
}
