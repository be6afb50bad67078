package arch

import "maps"

// Metadata holds per-component display hints.
//
// The well-known keys are typed fields; anything else (vendor notes, SLA
// strings, imported attributes) lives in Extra.
type Metadata struct {
	Technology    string         `json:"technology,omitempty" bson:"technology,omitempty"`
	Port          int            `json:"port,omitempty" bson:"port,omitempty"`
	TableCount    int            `json:"tableCount,omitempty" bson:"table_count,omitempty"`
	EndpointCount int            `json:"endpointCount,omitempty" bson:"endpoint_count,omitempty"`
	External      bool           `json:"external,omitempty" bson:"external,omitempty"`
	Extra         map[string]any `json:"extra,omitempty" bson:"extra,omitempty"`
}

// Clone returns a copy of m whose Extra map is not shared.
func (m Metadata) Clone() Metadata {
	m.Extra = maps.Clone(m.Extra)
	return m
}

// EdgeData carries the transport protocol and security mechanism of a connection.
type EdgeData struct {
	Protocol string         `json:"protocol,omitempty" bson:"protocol,omitempty"`
	Security string         `json:"security,omitempty" bson:"security,omitempty"`
	Extra    map[string]any `json:"extra,omitempty" bson:"extra,omitempty"`
}

// Clone returns a copy of d whose Extra map is not shared.
func (d EdgeData) Clone() EdgeData {
	d.Extra = maps.Clone(d.Extra)
	return d
}

// DefaultEdgeData is attached to user-drawn connections that carry no data.
func DefaultEdgeData() EdgeData {
	return EdgeData{Protocol: ProtocolHTTPS, Security: SecurityJWT}
}

// defaults is the per-archetype metadata applied to newly added nodes.
var defaults = map[NodeType]Metadata{
	TypeDatabase:            {Technology: "PostgreSQL", Port: 5432},
	TypeAPIService:          {Technology: "Node.js", Port: 3000},
	TypeFrontend:            {Technology: "React"},
	TypeCache:               {Technology: "Redis", Port: 6379},
	TypeQueue:               {Technology: "RabbitMQ", Port: 5672},
	TypeMessageBroker:       {Technology: "Kafka", Port: 9092},
	TypeAPIGateway:          {Technology: "Kong", Port: 8000},
	TypeLoadBalancer:        {Technology: "NGINX", Port: 80},
	TypeCDN:                 {Technology: "CloudFront"},
	TypeAuthentication:      {Technology: "OAuth 2.0"},
	TypeMonitoring:          {Technology: "Prometheus", Port: 9090},
	TypeLogging:             {Technology: "ELK Stack"},
	TypeSearchEngine:        {Technology: "Elasticsearch", Port: 9200},
	TypeSecretsManager:      {Technology: "Vault", Port: 8200},
	TypeBackupStorage:       {Technology: "S3"},
	TypeCICD:                {Technology: "GitHub Actions"},
	TypeNotificationService: {Technology: "SNS"},
	TypeExternalService:     {External: true},
	TypePaymentGateway:      {Technology: "Stripe", External: true},
	TypeEmailService:        {Technology: "SendGrid", External: true},
}

// DefaultMetadata returns the metadata a freshly added node of type t starts with.
// Archetypes without a known default get the zero value.
func DefaultMetadata(t NodeType) Metadata {
	return defaults[t].Clone()
}
