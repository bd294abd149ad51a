package main

import "github.com/frahmantamala/community-ops/cmd"

func main() {
	cmd.Execute()
}
