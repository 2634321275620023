package model

// Keyword is a search keyword fan discovery runs against. Keywords are
// unique by text.
type Keyword struct {
	ID           int64  `store:"readonly"`
	FansKeywords string `store:"equal,type=varchar,length=128"`
	DelFlag      int    `store:"type=smallint"`
}

func (k *Keyword) Values() []any {
	return []any{k.FansKeywords, k.DelFlag}
}

func (k *Keyword) EqualValues() map[string]any {
	if k.FansKeywords == "" {
		return nil
	}
	return map[string]any{"fans_keywords": k.FansKeywords}
}
