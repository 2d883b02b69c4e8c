// alertflow tracks customer-success alerts through acknowledgement, snoozing,
// playbooks and resolution, with SLA urgency and an action history.
package main

import "github.com/ppiankov/alertflow/internal/cli"

func main() {
	cli.Execute()
}
