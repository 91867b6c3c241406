package main

import "github.com/Krishjain2911/gatsby/cmd"

func main() {
	cmd.Execute()
}
