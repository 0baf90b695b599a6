package cont

import (
	"context"
	"xtvredirect/entity"
)

type ctxKey string

const ClientDataKey ctxKey = "clientData"

func PutClient(c context.Context, client *entity.ApiClient) context.Context {
	return context.WithValue(c, ClientDataKey, *client)
}

func GetClient(c context.Context) *entity.ApiClient {
	client, ok := c.Value(ClientDataKey).(entity.ApiClient)
	if !ok {
		return &entity.ApiClient{}
	}
	return &client
}
