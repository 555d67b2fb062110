package bench

import (
	"context"
	"errors"

	pool "github.com/jolestar/go-commons-pool/v2"
	"github.com/jujunwang/Minidis/resp/client"
)

type connectionFactory struct {
	Addr string
}

func (f *connectionFactory) MakeObject(ctx context.Context) (*pool.PooledObject, error) {
	c, err := client.MakeClient(f.Addr)
	if err != nil {
		return nil, err
	}
	return pool.NewPooledObject(c), nil
}

func (f *connectionFactory) DestroyObject(ctx context.Context, object *pool.PooledObject) error {
	c, ok := object.Object.(*client.Client)
	if !ok {
		return errors.New("type mismatch")
	}
	return c.Close()
}

//go-commons-pool 中未用到的对象对象处理机制

func (f *connectionFactory) ValidateObject(ctx context.Context, object *pool.PooledObject) bool {
	//校验对象
	return true
}

func (f *connectionFactory) ActivateObject(ctx context.Context, object *pool.PooledObject) error {
	//激活对象
	return nil
}

func (f *connectionFactory) PassivateObject(ctx context.Context, object *pool.PooledObject) error {
	//钝化对象
	return nil
}

func newClientPool(ctx context.Context, addr string, size int) *pool.ObjectPool {
	cfg := pool.NewDefaultPoolConfig()
	cfg.MaxTotal = size
	cfg.MaxIdle = size
	return pool.NewObjectPool(ctx, &connectionFactory{Addr: addr}, cfg)
}
