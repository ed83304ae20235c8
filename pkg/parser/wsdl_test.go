//go:build !integration

package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const creditWSDL = `<?xml version="1.0" encoding="UTF-8"?>
<definitions xmlns="http://schemas.xmlsoap.org/wsdl/"
             xmlns:plnk="http://docs.oasis-open.org/wsbpel/2.0/plnktype"
             targetNamespace="http://acme.example/wsdl/credit">
  <message name="CreditRequestMessage">
    <part name="payload" element="tns:CreditRequest"/>
  </message>
  <message name="CreditResponseMessage">
    <part name="payload" element="tns:CreditResponse"/>
  </message>
  <portType name="CreditCheckerPT">
    <operation name="check">
      <input message="tns:CreditRequestMessage"/>
      <output message="tns:CreditResponseMessage"/>
      <fault name="serviceUnavailable" message="tns:FaultMessage"/>
    </operation>
    <operation name="cancel">
      <input message="tns:CreditRequestMessage"/>
    </operation>
  </portType>
  <plnk:partnerLinkType name="CreditPLT">
    <plnk:role name="CreditChecker" portType="tns:CreditCheckerPT"/>
  </plnk:partnerLinkType>
</definitions>`

const legacyWSDL = `<?xml version="1.0" encoding="UTF-8"?>
<definitions xmlns="http://schemas.xmlsoap.org/wsdl/"
             xmlns:plnk="http://schemas.xmlsoap.org/ws/2003/05/partner-link/"
             targetNamespace="http://acme.example/wsdl/loan">
  <portType name="LoanProviderPT">
    <operation name="initiate">
      <input message="tns:LoanRequestMessage"/>
    </operation>
  </portType>
  <plnk:partnerLinkType name="LoanPLT">
    <plnk:role name="LoanProvider">
      <plnk:portType name="tns:LoanProviderPT"/>
    </plnk:role>
  </plnk:partnerLinkType>
</definitions>`

func TestParseWSDL(t *testing.T) {
	wsdl, err := ParseWSDL([]byte(creditWSDL), "wsdl/CreditService.wsdl")
	require.NoError(t, err)

	if wsdl.TargetNamespace != "http://acme.example/wsdl/credit" {
		t.Errorf("unexpected targetNamespace %q", wsdl.TargetNamespace)
	}
	require.Len(t, wsdl.Messages, 2)
	require.Len(t, wsdl.Messages[0].Parts, 1)
	if wsdl.Messages[0].Parts[0].Element != "tns:CreditRequest" {
		t.Errorf("unexpected part element %q", wsdl.Messages[0].Parts[0].Element)
	}

	require.Len(t, wsdl.PortTypes, 1)
	pt := wsdl.PortTypes[0]
	require.Len(t, pt.Operations, 2)
	check := pt.Operations[0]
	if check.Input != "tns:CreditRequestMessage" || check.Output != "tns:CreditResponseMessage" {
		t.Errorf("unexpected operation messages: %+v", check)
	}
	require.Len(t, check.Faults, 1)
	if check.Faults[0] != "serviceUnavailable" {
		t.Errorf("unexpected fault %q", check.Faults[0])
	}

	require.Len(t, wsdl.PartnerLinkTypes, 1)
	plt := wsdl.PartnerLinkTypes[0]
	require.Len(t, plt.Roles, 1)
	if plt.Roles[0].PortType != "tns:CreditCheckerPT" {
		t.Errorf("unexpected role port type %q", plt.Roles[0].PortType)
	}
}

func TestParseWSDLNestedRolePortType(t *testing.T) {
	wsdl, err := ParseWSDL([]byte(legacyWSDL), "wsdl/LoanService.wsdl")
	require.NoError(t, err)

	require.Len(t, wsdl.PartnerLinkTypes, 1)
	role := wsdl.PartnerLinkTypes[0].Roles[0]
	if role.PortType != "tns:LoanProviderPT" {
		t.Errorf("nested portType child not resolved: %+v", role)
	}
}

func TestParseWSDLWrongRoot(t *testing.T) {
	_, err := ParseWSDL([]byte(`<process xmlns="http://docs.oasis-open.org/wsbpel/2.0/process/executable"/>`), "wsdl/bad.wsdl")
	if err == nil {
		t.Fatal("expected an error for a non-WSDL document")
	}
}

func TestServiceCatalogResolveRole(t *testing.T) {
	credit, err := ParseWSDL([]byte(creditWSDL), "wsdl/CreditService.wsdl")
	require.NoError(t, err)
	loan, err := ParseWSDL([]byte(legacyWSDL), "wsdl/LoanService.wsdl")
	require.NoError(t, err)
	catalog := NewServiceCatalog([]*WSDL{credit, loan}, nil)

	tests := []struct {
		name            string
		partnerLinkType string
		role            string
		wantPortType    string
		wantOps         []string
		wantOK          bool
	}{
		{
			name:            "resolves with QName prefix",
			partnerLinkType: "tns:CreditPLT",
			role:            "CreditChecker",
			wantPortType:    "tns:CreditCheckerPT",
			wantOps:         []string{"check", "cancel"},
			wantOK:          true,
		},
		{
			name:            "resolves across documents",
			partnerLinkType: "LoanPLT",
			role:            "LoanProvider",
			wantPortType:    "tns:LoanProviderPT",
			wantOps:         []string{"initiate"},
			wantOK:          true,
		},
		{
			name:            "unknown partner link type",
			partnerLinkType: "tns:NoSuchPLT",
			role:            "Whatever",
			wantOK:          false,
		},
		{
			name:            "known type, unknown role",
			partnerLinkType: "CreditPLT",
			role:            "NoSuchRole",
			wantOK:          false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			portType, ops, ok := catalog.ResolveRole(tt.partnerLinkType, tt.role)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if !tt.wantOK {
				return
			}
			if portType != tt.wantPortType {
				t.Errorf("expected port type %q, got %q", tt.wantPortType, portType)
			}
			if len(ops) != len(tt.wantOps) {
				t.Fatalf("expected operations %v, got %v", tt.wantOps, ops)
			}
			for i := range ops {
				if ops[i] != tt.wantOps[i] {
					t.Errorf("operation %d: expected %q, got %q", i, tt.wantOps[i], ops[i])
				}
			}
		})
	}

	if !catalog.HasOperation("CreditCheckerPT", "check") {
		t.Error("expected HasOperation to find check")
	}
	if catalog.HasOperation("CreditCheckerPT", "refund") {
		t.Error("did not expect HasOperation to find refund")
	}
	if catalog.Empty() {
		t.Error("catalog with documents reported empty")
	}
	var nilCatalog *ServiceCatalog
	if !nilCatalog.Empty() {
		t.Error("nil catalog must report empty")
	}
}

func TestParseXSD(t *testing.T) {
	content := `<?xml version="1.0"?>
<schema xmlns="http://www.w3.org/2001/XMLSchema" targetNamespace="http://acme.example/xsd/order">
  <element name="OrderRequest"/>
  <element name="OrderResponse"/>
  <complexType name="OrderLineType"/>
  <simpleType name="StatusType"/>
</schema>`
	xsd, err := ParseXSD([]byte(content), "xsd/order.xsd")
	require.NoError(t, err)

	if len(xsd.Elements) != 2 || xsd.Elements[0] != "OrderRequest" {
		t.Errorf("unexpected elements %v", xsd.Elements)
	}
	if len(xsd.ComplexTypes) != 1 || xsd.ComplexTypes[0] != "OrderLineType" {
		t.Errorf("unexpected complex types %v", xsd.ComplexTypes)
	}
	if len(xsd.SimpleTypes) != 1 || xsd.SimpleTypes[0] != "StatusType" {
		t.Errorf("unexpected simple types %v", xsd.SimpleTypes)
	}
}

func TestServiceCatalogResolveSchemaRef(t *testing.T) {
	content := `<?xml version="1.0"?>
<schema xmlns="http://www.w3.org/2001/XMLSchema" targetNamespace="http://acme.example/xsd/order">
  <element name="OrderRequest"/>
  <complexType name="OrderLineType"/>
  <simpleType name="StatusType"/>
</schema>`
	xsd, err := ParseXSD([]byte(content), "xsd/order.xsd")
	require.NoError(t, err)
	catalog := NewServiceCatalog(nil, []*XSD{xsd})

	if !catalog.HasSchemas() {
		t.Fatal("catalog with an XSD must report HasSchemas")
	}

	tests := []struct {
		name     string
		ref      string
		wantKind string
		wantOK   bool
	}{
		{name: "element with QName prefix", ref: "ord:OrderRequest", wantKind: "element", wantOK: true},
		{name: "complex type", ref: "OrderLineType", wantKind: "complexType", wantOK: true},
		{name: "simple type", ref: "tns:StatusType", wantKind: "simpleType", wantOK: true},
		{name: "unknown name", ref: "tns:Ghost", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := catalog.ResolveSchemaRef(tt.ref)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if kind != tt.wantKind {
				t.Errorf("expected kind %q, got %q", tt.wantKind, kind)
			}
		})
	}

	var nilCatalog *ServiceCatalog
	if nilCatalog.HasSchemas() {
		t.Error("nil catalog must not report schemas")
	}
	if _, ok := nilCatalog.ResolveSchemaRef("OrderRequest"); ok {
		t.Error("nil catalog must not resolve schema refs")
	}
}
