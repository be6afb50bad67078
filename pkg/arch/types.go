package arch

import (
	"slices"
	"strings"

	"github.com/matzehuels/archgraph/pkg/errors"
)

// NodeType is the archetype of an infrastructure component.
// The set of valid values is closed; see [NodeTypes].
type NodeType string

// Node archetypes.
const (
	TypeDatabase            NodeType = "database"
	TypeAPIService          NodeType = "api-service"
	TypeAuthentication      NodeType = "authentication"
	TypeFrontend            NodeType = "frontend"
	TypeLoadBalancer        NodeType = "load-balancer"
	TypeCache               NodeType = "cache"
	TypeQueue               NodeType = "queue"
	TypeAPIGateway          NodeType = "api-gateway"
	TypeCDN                 NodeType = "cdn"
	TypeMonitoring          NodeType = "monitoring"
	TypeLogging             NodeType = "logging"
	TypeSearchEngine        NodeType = "search-engine"
	TypeSecretsManager      NodeType = "secrets-manager"
	TypeBackupStorage       NodeType = "backup-storage"
	TypeCICD                NodeType = "ci-cd"
	TypeExternalService     NodeType = "external-service"
	TypeNotificationService NodeType = "notification-service"
	TypeMessageBroker       NodeType = "message-broker"
	TypeObjectStorage       NodeType = "storage"
	TypeContainerRegistry   NodeType = "container-registry"
	TypeKubernetesCluster   NodeType = "kubernetes-cluster"
	TypeServerless          NodeType = "serverless-function"
	TypeWebServer           NodeType = "web-server"
	TypeWorker              NodeType = "worker"
	TypeScheduler           NodeType = "scheduler"
	TypeAnalytics           NodeType = "analytics"
	TypeDataWarehouse       NodeType = "data-warehouse"
	TypeEmailService        NodeType = "email-service"
	TypePaymentGateway      NodeType = "payment-gateway"
	TypeDNS                 NodeType = "dns"
	TypeFirewall            NodeType = "firewall"
	TypeVPN                 NodeType = "vpn"

	// TypeGroup is a visual backdrop. Group nodes are not draggable, not
	// selectable and never counted as components.
	TypeGroup NodeType = "group"
)

var nodeTypes = []NodeType{
	TypeDatabase, TypeAPIService, TypeAuthentication, TypeFrontend,
	TypeLoadBalancer, TypeCache, TypeQueue, TypeAPIGateway, TypeCDN,
	TypeMonitoring, TypeLogging, TypeSearchEngine, TypeSecretsManager,
	TypeBackupStorage, TypeCICD, TypeExternalService, TypeNotificationService,
	TypeMessageBroker, TypeObjectStorage, TypeContainerRegistry,
	TypeKubernetesCluster, TypeServerless, TypeWebServer, TypeWorker,
	TypeScheduler, TypeAnalytics, TypeDataWarehouse, TypeEmailService,
	TypePaymentGateway, TypeDNS, TypeFirewall, TypeVPN, TypeGroup,
}

// NodeTypes returns every valid archetype in catalog order.
func NodeTypes() []NodeType { return slices.Clone(nodeTypes) }

// IsValid reports whether t belongs to the archetype catalog.
func (t NodeType) IsValid() bool { return slices.Contains(nodeTypes, t) }

// IsGroup reports whether t is the backdrop archetype.
func (t NodeType) IsGroup() bool { return t == TypeGroup }

func (t NodeType) String() string { return string(t) }

// ParseNodeType converts s to a NodeType. Matching ignores case and
// surrounding whitespace; unknown archetypes yield ErrCodeInvalidNodeType.
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", errors.New(errors.ErrCodeInvalidNodeType, "unknown node type: %q", s)
	}
	return t, nil
}

// Position is a point in graph space.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Offset returns p moved by dx, dy.
func (p Position) Offset(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Default edge connector style and connection values.
const (
	DefaultEdgeType  = "smoothstep"
	DefaultEdgeLabel = "Connection"
)

// Protocols used on edges.
const (
	ProtocolHTTPS     = "HTTPS"
	ProtocolSQL       = "SQL"
	ProtocolTCP       = "TCP"
	ProtocolEncrypted = "Encrypted"
)

// SecurityJWT is the default security mechanism for user-drawn connections.
const SecurityJWT = "JWT"
