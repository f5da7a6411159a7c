package cont

import (
	"context"

	"clubconnect/entity"
)

type ctxKey string

const AccountDataKey ctxKey = "accountData"

func PutAccount(c context.Context, acc *entity.Account) context.Context {
	return context.WithValue(c, AccountDataKey, *acc)
}

func GetAccount(c context.Context) *entity.Account {
	acc, ok := c.Value(AccountDataKey).(entity.Account)
	if !ok {
		return &entity.Account{}
	}
	return &acc
}
