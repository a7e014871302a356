// Package i18n holds the viewer's string tables and language matching.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	KeyTitle               = "title"
	KeyLoading             = "loading"
	KeyCurrentStage        = "currentStage"
	KeyTotal               = "total"
	KeyProgressNext        = "progressNext"
	KeyProgressMax         = "progressMax"
	KeyRecentProgress      = "recentProgress"
	KeyMilestoneTitle      = "milestoneDefaultTitle"
	KeyMilestoneMessage    = "milestoneDefaultMessage"
	KeyRetry               = "retry"
	KeyClose               = "close"
	KeyStatsTitle          = "statsTitle"
	KeyStatsLoading        = "statsLoading"
	KeyStatsFailed         = "statsFailed"
	KeyStatsHourly         = "statsHourly"
	KeyStatsHistory        = "statsHistory"
	KeyStatsEmpty          = "statsEmpty"
	KeyStatsHourLine       = "statsHourLine"
	KeyStatsStageLine      = "statsStageLine"
	KeyErrConfig           = "errConfigUnavailable"
	KeyErrNetwork          = "errNetworkFailure"
	KeyErrMalformed        = "errMalformedResponse"
	KeyErrImage            = "errImageUnresolvable"
	KeyErrMissingImage     = "errMissingStageImage"
	KeyHintDefault         = "hintDefault"
	KeyHintConfig          = "hintConfig"
	KeyHintImageConfig     = "hintImageConfig"
	KeyDefaultsInUse       = "defaultsInUse"
	KeyEnvironment         = "environment"
	KeyLanguage            = "language"
	KeyRealtimeNotice      = "realtimeNotice"
	KeyPollingStopped      = "pollingStopped"
	KeyAnimating           = "animating"
	KeyPlaceholderFallback = "placeholder"
)

// Baseline is the language every table is complete in.
var Baseline = language.Japanese

var supported = []language.Tag{language.Japanese, language.English}

var matcher = language.NewMatcher(supported)

var tables = map[language.Tag]map[string]string{
	language.Japanese: {
		KeyTitle:               "みんなで育てる友情の木",
		KeyLoading:             "データを読み込み中...",
		KeyCurrentStage:        "現在の成長段階:",
		KeyTotal:               "累計交流回数:",
		KeyProgressNext:        "次の段階まであと %d 回",
		KeyProgressMax:         "最大段階に到達！",
		KeyRecentProgress:      "前回から %d 回の交流がありました！",
		KeyMilestoneTitle:      "おめでとう！",
		KeyMilestoneMessage:    "新たな段階に到達しました！",
		KeyRetry:               "再試行",
		KeyClose:               "閉じる",
		KeyStatsTitle:          "利用統計 (簡易)",
		KeyStatsLoading:        "統計データを読み込み中...",
		KeyStatsFailed:         "統計データの取得に失敗しました。",
		KeyStatsHourly:         "時間帯別アクセス",
		KeyStatsHistory:        "成長段階の履歴",
		KeyStatsEmpty:          "データがありません",
		KeyStatsHourLine:       "%d:00 - %d:00 : %d アクセス",
		KeyStatsStageLine:      "%s: 段階 %d に到達",
		KeyErrConfig:           "設定情報の読み込みに失敗しました。デフォルト設定で試行します。",
		KeyErrNetwork:          "サーバーとの通信に失敗しました。",
		KeyErrMalformed:        "サーバーから受信したデータの形式が正しくありません。",
		KeyErrImage:            "画像の読み込みに失敗しました。",
		KeyErrMissingImage:     "現在の段階 (%s) の画像設定が見つかりません。",
		KeyHintDefault:         "時間をおいて再試行するか、管理者に連絡してください。",
		KeyHintConfig:          "管理画面で設定を確認してください。",
		KeyHintImageConfig:     "管理画面で画像設定を確認してください。",
		KeyDefaultsInUse:       "デフォルト設定で動作中",
		KeyEnvironment:         "背景:",
		KeyLanguage:            "言語:",
		KeyRealtimeNotice:      "更新されました！",
		KeyPollingStopped:      "ポーリング停止中",
		KeyAnimating:           "成長中...",
		KeyPlaceholderFallback: "(代替画像)",
	},
	language.English: {
		KeyTitle:               "Our Friendship Tree",
		KeyLoading:             "Loading data...",
		KeyCurrentStage:        "Current Stage:",
		KeyTotal:               "Total Interactions:",
		KeyProgressNext:        "%d more interactions to the next stage",
		KeyProgressMax:         "Reached the final stage!",
		KeyRecentProgress:      "%d interactions since last update!",
		KeyMilestoneTitle:      "Congratulations!",
		KeyMilestoneMessage:    "You've reached a new stage!",
		KeyRetry:               "Retry",
		KeyClose:               "Close",
		KeyStatsTitle:          "Usage Statistics (Simple)",
		KeyStatsLoading:        "Loading statistics...",
		KeyStatsFailed:         "Failed to fetch statistics.",
		KeyStatsHourly:         "Access by hour",
		KeyStatsHistory:        "Stage history",
		KeyStatsEmpty:          "No data available",
		KeyStatsHourLine:       "%d:00 - %d:00 : %d visits",
		KeyStatsStageLine:      "%s: reached stage %d",
		KeyErrConfig:           "Failed to load configuration. Trying with default settings.",
		KeyErrNetwork:          "Failed to communicate with the server.",
		KeyErrMalformed:        "Received invalid data format from the server.",
		KeyErrImage:            "Failed to load image.",
		KeyErrMissingImage:     "Image configuration not found for the current stage (%s).",
		KeyHintDefault:         "Please retry after a while or contact the administrator.",
		KeyHintConfig:          "Check the settings in the admin panel.",
		KeyHintImageConfig:     "Check the image settings in the admin panel.",
		KeyDefaultsInUse:       "Running on default settings",
		KeyEnvironment:         "Backdrop:",
		KeyLanguage:            "Language:",
		KeyRealtimeNotice:      "Updated!",
		KeyPollingStopped:      "Polling stopped",
		KeyAnimating:           "Growing...",
		KeyPlaceholderFallback: "(placeholder)",
	},
}

var cat = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(Baseline))
	for tag, entries := range tables {
		for key, msg := range entries {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Normalize maps any language string onto a supported base language code
// such as "ja" or "en".
func Normalize(lang string) string {
	return Match(lang).String()
}

// Match returns the supported tag closest to lang. Blank, unknown and
// unsupported languages fall back to Baseline.
func Match(lang string) language.Tag {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return Baseline
	}
	_, idx, conf := matcher.Match(language.Make(lang))
	if conf == language.No {
		return Baseline
	}
	return supported[idx]
}

// Supported lists the language codes the tables cover, baseline first.
func Supported() []string {
	out := make([]string, 0, len(supported))
	for _, tag := range supported {
		out = append(out, tag.String())
	}
	return out
}

// Next cycles to the language after lang.
func Next(lang string) string {
	current := Normalize(lang)
	codes := Supported()
	for i, code := range codes {
		if code == current {
			return codes[(i+1)%len(codes)]
		}
	}
	return codes[0]
}

// Printer formats messages for one language.
type Printer struct {
	lang string
	p    *message.Printer
}

// NewPrinter returns a Printer for the supported language closest to lang.
func NewPrinter(lang string) *Printer {
	tag := Match(lang)
	return &Printer{lang: tag.String(), p: message.NewPrinter(tag, message.Catalog(cat))}
}

// Language is the normalized language code of the printer.
func (p *Printer) Language() string {
	return p.lang
}

// Text formats the message for key.
func (p *Printer) Text(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}
