package order

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NotionRepository persists orders in a Notion database, one page per order.
// Field names and the Items text-blob format are fixed by the existing
// database schema, so this backend is intentionally lossy on read-back
// (unit prices come back as zero; see DecodeItems).
type NotionRepository struct {
	apiKey     string
	databaseID string
	baseURL    string
	client     *http.Client
}

const notionVersion = "2022-06-28"

func NewNotionRepository(apiKey, databaseID string) *NotionRepository {
	return &NotionRepository{
		apiKey:     apiKey,
		databaseID: databaseID,
		baseURL:    "https://api.notion.com",
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether both credentials are present.
func (r *NotionRepository) Configured() bool {
	return r.apiKey != "" && r.databaseID != ""
}

// notionProp covers the property flavors the order database uses.
type notionProp struct {
	Title    []notionText `json:"title,omitempty"`
	RichText []notionText `json:"rich_text,omitempty"`
	Email    string       `json:"email,omitempty"`
	Number   *float64     `json:"number,omitempty"`
	Select   *notionName  `json:"select,omitempty"`
	Date     *notionDate  `json:"date,omitempty"`
}

type notionText struct {
	Text struct {
		Content string `json:"content"`
	} `json:"text"`
}

type notionName struct {
	Name string `json:"name"`
}

type notionDate struct {
	Start string `json:"start"`
}

func textProp(content string) []notionText {
	var t notionText
	t.Text.Content = content
	return []notionText{t}
}

func numberProp(v float64) *float64 { return &v }

type notionPage struct {
	ID         string                `json:"id"`
	Properties map[string]notionProp `json:"properties"`
}

type notionQueryResponse struct {
	Results []notionPage `json:"results"`
}

func (r *NotionRepository) Create(ord Order) (Order, error) {
	if !r.Configured() {
		return Order{}, ErrUnavailable
	}

	props := map[string]notionProp{
		"Order ID":          {Title: textProp(ord.OrderID)},
		"Customer Name":     {RichText: textProp(ord.Customer.FirstName + " " + ord.Customer.LastName)},
		"Email":             {Email: ord.Customer.Email},
		"Address":           {RichText: textProp(formatAddress(ord.Customer))},
		"Items":             {RichText: textProp(EncodeItems(ord.Lines))},
		"Box Size":          {Select: &notionName{Name: ord.BoxSize}},
		"Subtotal":          {Number: numberProp(ord.Subtotal.InexactFloat64())},
		"Box Price":         {Number: numberProp(ord.BoxPrice.InexactFloat64())},
		"Shipping Cost":     {Number: numberProp(ord.ShippingCost.InexactFloat64())},
		"Total":             {Number: numberProp(ord.Total.InexactFloat64())},
		"Payment Intent ID": {RichText: textProp(ord.PaymentRef)},
		"Status":            {Select: &notionName{Name: string(ord.Status)}},
		"Order Date":        {Date: &notionDate{Start: ord.CreatedAt}},
	}

	body := map[string]any{
		"parent":     map[string]string{"database_id": r.databaseID},
		"properties": props,
	}
	if err := r.do("POST", "/v1/pages", body, nil); err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *NotionRepository) GetByID(orderID string) (Order, error) {
	page, err := r.findPage(orderID)
	if err != nil {
		return Order{}, err
	}
	return pageToOrder(*page), nil
}

func (r *NotionRepository) UpdateStatus(orderID string, status Status) error {
	page, err := r.findPage(orderID)
	if err != nil {
		return err
	}

	body := map[string]any{
		"properties": map[string]notionProp{
			"Status": {Select: &notionName{Name: string(status)}},
		},
	}
	return r.do("PATCH", "/v1/pages/"+page.ID, body, nil)
}

func (r *NotionRepository) List(status Status) ([]Order, error) {
	if !r.Configured() {
		return nil, ErrUnavailable
	}

	body := map[string]any{
		"sorts": []map[string]string{{"property": "Order Date", "direction": "descending"}},
	}
	if status != "" {
		body["filter"] = map[string]any{
			"property": "Status",
			"select":   map[string]string{"equals": string(status)},
		}
	}

	var resp notionQueryResponse
	if err := r.do("POST", "/v1/databases/"+r.databaseID+"/query", body, &resp); err != nil {
		return nil, err
	}

	orders := make([]Order, 0, len(resp.Results))
	for _, page := range resp.Results {
		orders = append(orders, pageToOrder(page))
	}
	// the API already sorts, but keep the guarantee local
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].CreatedAt > orders[j].CreatedAt })
	return orders, nil
}

func (r *NotionRepository) findPage(orderID string) (*notionPage, error) {
	if !r.Configured() {
		return nil, ErrUnavailable
	}

	body := map[string]any{
		"filter": map[string]any{
			"property": "Order ID",
			"title":    map[string]string{"equals": orderID},
		},
	}
	var resp notionQueryResponse
	if err := r.do("POST", "/v1/databases/"+r.databaseID+"/query", body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, ErrNotFound
	}
	return &resp.Results[0], nil
}

func (r *NotionRepository) do(method, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(method, r.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("order store responded %d", res.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(res.Body).Decode(out)
	}
	return nil
}

func formatAddress(c CustomerInfo) string {
	return fmt.Sprintf("%s, %s, %s %s", c.Address, c.City, c.State, c.Zip)
}

func parseAddress(blob string) (address, city, state, zip string) {
	parts := strings.SplitN(blob, ", ", 3)
	if len(parts) > 0 {
		address = parts[0]
	}
	if len(parts) > 1 {
		city = parts[1]
	}
	if len(parts) > 2 {
		stateZip := strings.Fields(parts[2])
		if len(stateZip) > 0 {
			state = stateZip[0]
		}
		if len(stateZip) > 1 {
			zip = stateZip[1]
		}
	}
	return
}

func pageToOrder(page notionPage) Order {
	props := page.Properties
	var ord Order

	ord.OrderID = firstText(props["Order ID"].Title)
	name := firstText(props["Customer Name"].RichText)
	if name != "" {
		fields := strings.Fields(name)
		ord.Customer.FirstName = fields[0]
		ord.Customer.LastName = strings.Join(fields[1:], " ")
	}
	ord.Customer.Email = props["Email"].Email
	ord.Customer.Address, ord.Customer.City, ord.Customer.State, ord.Customer.Zip = parseAddress(firstText(props["Address"].RichText))
	ord.Lines = DecodeItems(firstText(props["Items"].RichText))
	if sel := props["Box Size"].Select; sel != nil {
		ord.BoxSize = sel.Name
	}
	ord.Subtotal = numberOrZero(props["Subtotal"].Number)
	ord.BoxPrice = numberOrZero(props["Box Price"].Number)
	ord.ShippingCost = numberOrZero(props["Shipping Cost"].Number)
	ord.Total = numberOrZero(props["Total"].Number)
	ord.PaymentRef = firstText(props["Payment Intent ID"].RichText)
	ord.Status = StatusPending
	if sel := props["Status"].Select; sel != nil && sel.Name != "" {
		ord.Status = Status(sel.Name)
	}
	if d := props["Order Date"].Date; d != nil {
		ord.CreatedAt = d.Start
	}
	return ord
}

func firstText(texts []notionText) string {
	if len(texts) == 0 {
		return ""
	}
	return texts[0].Text.Content
}

func numberOrZero(v *float64) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*v)
}
