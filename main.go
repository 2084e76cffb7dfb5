package main

import "github.com/frahmantamala/expense-dashboard/cmd"

func main() {
	cmd.Execute()
}
