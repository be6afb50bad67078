package nodelink

import "github.com/matzehuels/archgraph/pkg/arch"

// DefaultFill is used for archetypes without a palette entry.
const DefaultFill = "#f1f5f9"

var palette = map[arch.NodeType]string{
	arch.TypeCDN:                 "#e0f2fe",
	arch.TypeFrontend:            "#dbeafe",
	arch.TypeWebServer:           "#dbeafe",
	arch.TypeAPIGateway:          "#ede9fe",
	arch.TypeLoadBalancer:        "#ede9fe",
	arch.TypeAuthentication:      "#fce7f3",
	arch.TypeAPIService:          "#dcfce7",
	arch.TypeWorker:              "#dcfce7",
	arch.TypeServerless:          "#dcfce7",
	arch.TypeCache:               "#fee2e2",
	arch.TypeQueue:               "#ffedd5",
	arch.TypeMessageBroker:       "#ffedd5",
	arch.TypeDatabase:            "#fef9c3",
	arch.TypeDataWarehouse:       "#fef9c3",
	arch.TypeSearchEngine:        "#fef3c7",
	arch.TypeObjectStorage:       "#fef3c7",
	arch.TypeMonitoring:          "#ccfbf1",
	arch.TypeLogging:             "#ccfbf1",
	arch.TypeAnalytics:           "#ccfbf1",
	arch.TypeNotificationService: "#cffafe",
	arch.TypeEmailService:        "#cffafe",
	arch.TypeCICD:                "#e2e8f0",
	arch.TypeSecretsManager:      "#fae8ff",
	arch.TypeBackupStorage:       "#e7e5e4",
	arch.TypeExternalService:     "#f5f5f4",
	arch.TypePaymentGateway:      "#f5f5f4",
}

// FillColor returns the node's own color if set, otherwise the archetype's
// palette entry.
func FillColor(n arch.Node) string {
	if n.Data.Color != "" {
		return n.Data.Color
	}
	if c, ok := palette[n.Type]; ok {
		return c
	}
	return DefaultFill
}
