// Package locale holds the Japanese strings the dashboard renders.
package locale

import "github.com/five82/stockboard/internal/inventory"

// Key identifies a display string.
type Key string

const (
	PageTitle      Key = "pageTitle"
	HeaderTitle    Key = "headerTitle"
	LastUpdated    Key = "lastUpdated"
	StoreName      Key = "storeName"
	GoBack         Key = "goBack"
	ThemeToLight   Key = "themeToggle.light"
	ThemeToDark    Key = "themeToggle.dark"
	SelectProducts Key = "selectProducts"
	SelectAll      Key = "selectAll"
	ClearSelection Key = "clearSelection"
	RefreshData    Key = "refreshData"
	FooterNote     Key = "footerNote"
	Loading        Key = "loading"
	Fetching       Key = "fetching"
	Paused         Key = "paused"
	Offline        Key = "offline"
	SampleData     Key = "sampleData"
	NoProducts     Key = "noProducts"
	Diagnostics    Key = "diagnostics"
	Help           Key = "help"
	Quit           Key = "quit"
	Suspend        Key = "suspend"
	Scroll         Key = "scroll"
	Toggle         Key = "toggle"
	Close          Key = "close"
	LastChecked    Key = "lastChecked"
	RefreshSkipped Key = "refreshSkipped"
	PrefsSaveError Key = "prefsSaveError"
	NoLogs         Key = "noLogs"
)

var ja = map[Key]string{
	PageTitle:      "コラボグッズ販売状況",
	HeaderTitle:    "コラボグッズ販売状況",
	LastUpdated:    "更新日",
	StoreName:      "店名",
	GoBack:         "戻る",
	ThemeToLight:   "ライトモードに切り替え",
	ThemeToDark:    "ダークモードに切り替え",
	SelectProducts: "表示する商品を選択",
	SelectAll:      "すべて選択",
	ClearSelection: "選択をクリア",
	RefreshData:    "データを更新",
	FooterNote:     "※販売状況の反映にはお時間がかかる場合もございますので、予めご了承ください。",
	Loading:        "読み込み中",
	Fetching:       "更新中",
	Paused:         "一時停止中",
	Offline:        "オフライン",
	SampleData:     "サンプルデータを表示中",
	NoProducts:     "表示する商品がありません",
	Diagnostics:    "ログ",
	Help:           "ヘルプ",
	Quit:           "終了",
	Suspend:        "一時停止",
	Scroll:         "スクロール",
	Toggle:         "切り替え",
	Close:          "閉じる",
	LastChecked:    "最終確認",
	RefreshSkipped: "更新は少し時間をおいてから実行してください",
	PrefsSaveError: "設定を保存できませんでした",
	NoLogs:         "ログはまだありません",
}

var statusLabels = map[inventory.Status]string{
	inventory.InStock: "販売中",
	inventory.SoldOut: "SOLD OUT",
	inventory.PreSale: "販売前",
}

// Text returns the string for key, or the key itself when none is defined.
func Text(key Key) string {
	if s, ok := ja[key]; ok {
		return s
	}
	return string(key)
}

// StatusLabel returns the display label for status. Unrecognized statuses are
// shown as received.
func StatusLabel(status inventory.Status) string {
	if s, ok := statusLabels[status]; ok {
		return s
	}
	return string(status)
}
