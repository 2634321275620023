package storage

import "time"

type Keyword struct {
	ID           int64  `store:"readonly"`
	FansKeywords string `store:"equal,type=varchar,length=128"`
	DelFlag      int    `store:"type=smallint"`
	note         string
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

type WeiboUser struct {
	Uid    string    `store:"equal,type=varchar,length=32"`
	Name   string    `store:"type=varchar,length=64"`
	Fans   int64     `store:"type=bigint"`
	Active bool      `store:"type=boolean"`
	SeenAt time.Time `store:"type=timestamp"`
}

func (u *WeiboUser) Values() []any {
	return []any{u.Uid, u.Name, u.Fans, u.Active, u.SeenAt}
}

func (u *WeiboUser) EqualValues() map[string]any {
	return map[string]any{"uid": u.Uid}
}

type Account struct {
	Vendor   string `store:"equal"`
	Owner    string `store:"equal"`
	Password string `store:"-"`
	Nickname *string
}

func (a *Account) Values() []any {
	return []any{a.Vendor, a.Owner, a.Nickname}
}

// EqualValues leaves out "owner".
func (a *Account) EqualValues() map[string]any {
	return map[string]any{"vendor": a.Vendor}
}

type Counter struct {
	ID int64 `store:"readonly"`
}

func (c *Counter) Values() []any               { return nil }
func (c *Counter) EqualValues() map[string]any { return nil }
