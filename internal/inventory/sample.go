package inventory

// SampleLabel is the LastUpdated label carried by the built-in dataset.
const SampleLabel = "サンプルデータ"

// Sample returns the built-in dataset shown when the first fetch fails and no
// fallback file is configured. Each call returns a fresh copy.
func Sample() Snapshot {
	products := []string{
		"アクリルスタンド\n井芹 仁菜",
		"アクリルスタンド\n河原木 桃花",
		"アクリルスタンド\n安和 すばる",
		"コラボロゴTシャツ",
		"コラボロゴパイントグラス",
	}
	row := func(statuses ...Status) map[string]Status {
		m := make(map[string]Status, len(products))
		for i, st := range statuses {
			m[products[i]] = st
		}
		return m
	}
	return Snapshot{
		Products: products,
		Stores: []Store{
			{Name: "HUB川崎店", Status: row(SoldOut, InStock, PreSale, InStock, PreSale)},
			{Name: "HUB池袋西口公園前店", Status: row(InStock, SoldOut, InStock, SoldOut, PreSale)},
			{Name: "HUB新宿区役所通り店", Status: row(InStock, InStock, InStock, InStock, InStock)},
		},
		LastUpdated: SampleLabel,
	}
}
