package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) purgeNotifications(days int) error {
	n, err := cli.ntfSvc.PurgeOld(context.Background(), days)
	if err != nil {
		return err
	}
	fmt.Printf("purged %d notification(s)\n", n)
	return nil
}
