package mysql

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"

	"restaurant_rater/internal/domain"
)

// MySQL server error numbers the store maps onto domain constraint kinds.
const (
	errDupEntry         = 1062
	errRowIsReferenced  = 1451
	errNoReferencedRow  = 1452
	errDataTooLong      = 1406
	errOutOfRange       = 1264
	errCheckConstraint  = 3819
	errRowIsReferenced2 = 1217
	errNoReferencedRow2 = 1216
)

var (
	dupKeyRe     = regexp.MustCompile(`for key '([^']+)'`)
	fkNameRe     = regexp.MustCompile("CONSTRAINT `([^`]+)`")
	checkNameRe  = regexp.MustCompile(`[Cc]heck constraint '([^']+)'`)
	columnNameRe = regexp.MustCompile(`column '([^']+)'`)
)

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); len(m) == 2 {
		return m[1]
	}
	return ""
}

// classify wraps constraint rejections in *domain.ConstraintError and
// returns every other error unchanged. The driver error stays in the chain.
func classify(entity string, err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}

	ce := &domain.ConstraintError{Entity: entity, Err: err}
	switch me.Number {
	case errDupEntry:
		ce.Kind = domain.KindDuplicate
		// MySQL 8 reports "table.key"
		key := firstGroup(dupKeyRe, me.Message)
		if i := strings.LastIndexByte(key, '.'); i >= 0 {
			key = key[i+1:]
		}
		ce.Constraint = key
	case errNoReferencedRow, errNoReferencedRow2:
		ce.Kind = domain.KindForeignKey
		ce.Constraint = firstGroup(fkNameRe, me.Message)
	case errRowIsReferenced, errRowIsReferenced2:
		ce.Kind = domain.KindReferenced
		ce.Constraint = firstGroup(fkNameRe, me.Message)
	case errCheckConstraint:
		ce.Kind = domain.KindCheck
		ce.Constraint = firstGroup(checkNameRe, me.Message)
	case errDataTooLong:
		ce.Kind = domain.KindCheck
		ce.Constraint = "length:" + firstGroup(columnNameRe, me.Message)
	case errOutOfRange:
		ce.Kind = domain.KindCheck
		ce.Constraint = "range:" + firstGroup(columnNameRe, me.Message)
	default:
		return err
	}
	return ce
}
