package main

import "babysteps-backend/cmd"

func main() {
	cmd.Run()
}
