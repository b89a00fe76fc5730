package cli

import "github.com/dukerupert/habitgrid/internal/push"

type VAPIDKeysCmd struct{}

func (c *VAPIDKeysCmd) Run(ctx *Context) error {
	pub, priv, err := push.GenerateVAPIDKeys()
	if err != nil {
		return err
	}
	ctx.printf("HABITGRID_VAPID_PUBLIC_KEY=%s\n", pub)
	ctx.printf("HABITGRID_VAPID_PRIVATE_KEY=%s\n", priv)
	return nil
}
