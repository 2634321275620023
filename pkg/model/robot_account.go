package model

import "fmt"

// RobotAccount is one configured account a robot acts for. Type names the
// vendor the account lives at ("QQ", "BAIDU", "HUJIANG", ...).
type RobotAccount struct {
	Type     string `yaml:"type" json:"type"`
	Account  string `yaml:"account" json:"account"`
	Password string `yaml:"password" json:"-"`
}

// Key returns the registry key of the account.
func (a RobotAccount) Key() string {
	return RobotKey(a.Type, a.Account)
}

// String never includes the password.
func (a RobotAccount) String() string {
	return fmt.Sprintf("RobotAccount[type=%s, account=%s]", a.Type, a.Account)
}

// RobotKey builds the "owner@vendor" key robots are registered under.
func RobotKey(vendor, owner string) string {
	return owner + "@" + vendor
}
