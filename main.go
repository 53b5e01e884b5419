package main

import "github.com/ValentinKolb/zcrpc/cmd"

func main() {
	cmd.Execute()
}
