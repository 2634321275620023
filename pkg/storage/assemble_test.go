package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDescribe(t *testing.T, entity any) *Descriptor {
	t.Helper()
	d, err := Describe(entity)
	require.NoError(t, err)
	return d
}

func TestAssembler_Insert(t *testing.T) {
	a := Assembler{Prefix: DefaultTablePrefix}

	sql, err := a.Insert(mustDescribe(t, &Keyword{}))
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO robot_keyword (fans_keywords,del_flag) VALUES (?,?)", sql)

	sql, err = a.Insert(mustDescribe(t, &Account{}))
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO robot_account (vendor,owner,nickname) VALUES (?,?,?)", sql)
}

func TestAssembler_InsertPlaceholdersMatchValues(t *testing.T) {
	a := Assembler{Prefix: "bot_"}
	nick := "jd"

	for _, entity := range []Storable{
		&Keyword{FansKeywords: "spring"},
		&WeiboUser{Uid: "001", Name: "jd", SeenAt: time.Now()},
		&Account{Vendor: "QQ", Owner: "jd", Nickname: &nick},
	} {
		sql, err := a.Insert(mustDescribe(t, entity))
		require.NoError(t, err)
		assert.Equal(t, len(entity.Values()), strings.Count(sql, "?"), sql)
		assert.True(t, strings.HasPrefix(sql, "INSERT INTO bot_"), sql)
	}
}

func TestAssembler_InsertWithoutColumns(t *testing.T) {
	_, err := Assembler{}.Insert(mustDescribe(t, &Counter{}))
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestAssembler_Exist(t *testing.T) {
	a := Assembler{Prefix: DefaultTablePrefix}

	sql, ok := a.Exist(mustDescribe(t, &Keyword{}))
	assert.True(t, ok)
	assert.Equal(t, "SELECT * FROM robot_keyword WHERE 1=1 AND fans_keywords=?", sql)

	sql, ok = a.Exist(mustDescribe(t, &Account{}))
	assert.True(t, ok)
	assert.Equal(t, "SELECT * FROM robot_account WHERE 1=1 AND vendor=? AND owner=?", sql)

	_, ok = a.Exist(mustDescribe(t, &Counter{}))
	assert.False(t, ok)
}

func TestAssembler_CreateTable(t *testing.T) {
	a := Assembler{Prefix: DefaultTablePrefix}

	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS robot_keyword (id SERIAL PRIMARY KEY, fans_keywords varchar(128) DEFAULT NULL, del_flag smallint DEFAULT NULL)",
		a.CreateTable(mustDescribe(t, &Keyword{})),
	)
	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS robot_weibo_user (id SERIAL PRIMARY KEY, uid varchar(32) DEFAULT NULL, name varchar(64) DEFAULT NULL, fans bigint DEFAULT NULL, active boolean DEFAULT NULL, seen_at timestamp DEFAULT NULL)",
		a.CreateTable(mustDescribe(t, &WeiboUser{})),
	)
	// Fields without schema metadata are left out of the DDL.
	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS robot_account (id SERIAL PRIMARY KEY)",
		a.CreateTable(mustDescribe(t, &Account{})),
	)
}
