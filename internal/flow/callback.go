package flow

import (
	"fmt"
	"strings"

	"github.com/tgfetch/video-bot/internal/model"
)

// CallbackKind classifies an inline-keyboard interaction.
type CallbackKind string

const (
	CallbackContentType CallbackKind = "type"
	CallbackQuality     CallbackKind = "quality"
	CallbackBack        CallbackKind = "back"
	CallbackCancel      CallbackKind = "cancel"
	CallbackMenu        CallbackKind = "menu"
)

// Menu actions carried by menu callbacks.
const (
	MenuDownload = "download"
	MenuHelp     = "help"
	MenuStats    = "stats"
	MenuMain     = "main"
)

// Callback is a decoded callback-data string.
type Callback struct {
	Kind        CallbackKind
	ContentType model.ContentType // type and quality callbacks
	Quality     string            // quality callbacks only
	Token       string            // correlation token, absent for cancel/menu
	Menu        string            // menu callbacks only
}

// ContentTypeData encodes a content-type button: type_{video|audio}_{token}.
func ContentTypeData(ct model.ContentType, token string) string {
	return fmt.Sprintf("type_%s_%s", ct, token)
}

// QualityData encodes a quality button: quality_{type}_{key}_{token}.
func QualityData(ct model.ContentType, quality, token string) string {
	return fmt.Sprintf("quality_%s_%s_%s", ct, quality, token)
}

// BackData encodes the back button: back_type_{token}.
func BackData(token string) string {
	return "back_type_" + token
}

// CancelData is the cancel button payload.
const CancelData = "cancel"

// MenuData encodes a menu button: menu_{action}.
func MenuData(action string) string {
	return "menu_" + action
}

// ParseCallback decodes a callback-data string. Unrecognized payloads return
// an error; they come from stale or foreign keyboards.
func ParseCallback(data string) (*Callback, error) {
	if data == CancelData {
		return &Callback{Kind: CallbackCancel}, nil
	}

	parts := strings.Split(data, "_")
	switch {
	case len(parts) == 2 && parts[0] == "menu":
		switch parts[1] {
		case MenuDownload, MenuHelp, MenuStats, MenuMain:
			return &Callback{Kind: CallbackMenu, Menu: parts[1]}, nil
		}
	case len(parts) == 3 && parts[0] == "type":
		ct, ok := model.ParseContentType(parts[1])
		if ok {
			return &Callback{Kind: CallbackContentType, ContentType: ct, Token: parts[2]}, nil
		}
	case len(parts) == 4 && parts[0] == "quality":
		ct, ok := model.ParseContentType(parts[1])
		if ok {
			return &Callback{Kind: CallbackQuality, ContentType: ct, Quality: parts[2], Token: parts[3]}, nil
		}
	case len(parts) == 3 && parts[0] == "back" && parts[1] == "type":
		return &Callback{Kind: CallbackBack, Token: parts[2]}, nil
	}
	return nil, fmt.Errorf("unrecognized callback data: %q", data)
}
