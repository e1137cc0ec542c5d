package main

import (
	"fmt"
	"os"

	"github.com/SARVESHVARADKAR123/livechat/cmd/livechatctl/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
