package main

import "github.com/aniekan-akpan/theblog/cmd"

func main() {
	cmd.Execute()
}
