package assemble_test

import (
	"fmt"

	"github.com/cxflow/cxflow/pkg/flow/assemble"
	"github.com/cxflow/cxflow/pkg/flow/layout"
)

func ExampleBuild() {
	// Assemble a small IVR with the fluent block API.
	welcome := assemble.NewBlock("MessageParticipant")
	welcome.ID = "welcome"
	menu := assemble.NewBlock("GetParticipantInput")
	menu.ID = "menu"
	bye := assemble.NewBlock("DisconnectParticipant")
	bye.ID = "bye"

	welcome.Then(menu)
	menu.Otherwise(bye)

	g, err := assemble.Build([]*assemble.Block{welcome, menu, bye}, "welcome")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	// Compute canvas positions: sequential flow runs left to right,
	// branches fan out vertically.
	positions, err := layout.Positions(g)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	for _, id := range []string{"welcome", "menu", "bye"} {
		p := positions[id]
		fmt.Printf("%s: (%d, %d)\n", id, p.X, p.Y)
	}
	// Output:
	// welcome: (150, 50)
	// menu: (430, 50)
	// bye: (710, 50)
}
