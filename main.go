/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "golem/cmd"

func main() {
	cmd.Execute()
}
