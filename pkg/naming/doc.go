// Package naming converts identifiers between Go field casing and SQL
// column casing.
//
//	naming.Underscore("fansKeywords") // "fans_keywords"
//	naming.Underscore("FansKeywords") // "fans_keywords"
//	naming.Camel("fans_keywords")     // "fansKeywords"
//	naming.Pascal("fans_keywords")    // "FansKeywords"
//
// Conversions are pure and ASCII only. A run of upper-case letters is a
// single word, so "UserID" becomes "user_id" and "HTTPServer" becomes
// "http_server". Such names do not convert back: Camel("user_id") is
// "userId". A name survives the round trip when every capital after the
// first character follows a non-capital, or follows a capital and precedes
// a lower-case letter.
package naming
