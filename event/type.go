package event

import "fmt"

// IntentType is a discrete player action captured by presentation
type IntentType int

const (
	// IntentCollect adds one click of currency
	IntentCollect IntentType = iota

	// IntentPurchaseUpgrade buys the regular rate upgrade
	IntentPurchaseUpgrade

	// IntentPurchaseMegaUpgrade buys the mega rate upgrade
	IntentPurchaseMegaUpgrade

	// IntentSave writes the game to storage
	IntentSave

	// IntentOpenShop switches to the shop screen
	IntentOpenShop

	// IntentOpenInventory switches to the inventory screen
	IntentOpenInventory

	// IntentBuyShopItem buys one of Key | Requires: Key
	IntentBuyShopItem

	// IntentUseInventoryItem uses one of Key | Requires: Key
	IntentUseInventoryItem

	// IntentStartCombat starts a fight and shows the combat screen
	IntentStartCombat

	// IntentUsePotion drinks the heal item, in or out of combat
	IntentUsePotion

	// IntentBack returns to the main screen, fleeing an ongoing fight from the combat screen
	IntentBack

	intentTypeCount
)

var intentNames = [intentTypeCount]string{
	"Collect",
	"PurchaseUpgrade",
	"PurchaseMegaUpgrade",
	"Save",
	"OpenShop",
	"OpenInventory",
	"BuyShopItem",
	"UseInventoryItem",
	"StartCombat",
	"UsePotion",
	"Back",
}

func (t IntentType) String() string {
	if t >= 0 && t < intentTypeCount {
		return intentNames[t]
	}
	return fmt.Sprintf("IntentType(%d)", int(t))
}

// Intent is one queued action; Key names the item for item intents
type Intent struct {
	Type IntentType
	Key  string
}

func (i Intent) String() string {
	if i.Key == "" {
		return i.Type.String()
	}
	return fmt.Sprintf("%s(%s)", i.Type, i.Key)
}

// Intent constructors for presentation code

func Collect() Intent             { return Intent{Type: IntentCollect} }
func PurchaseUpgrade() Intent     { return Intent{Type: IntentPurchaseUpgrade} }
func PurchaseMegaUpgrade() Intent { return Intent{Type: IntentPurchaseMegaUpgrade} }
func Save() Intent                { return Intent{Type: IntentSave} }
func OpenShop() Intent            { return Intent{Type: IntentOpenShop} }
func OpenInventory() Intent       { return Intent{Type: IntentOpenInventory} }
func StartCombat() Intent         { return Intent{Type: IntentStartCombat} }
func UsePotion() Intent           { return Intent{Type: IntentUsePotion} }
func Back() Intent                { return Intent{Type: IntentBack} }

func BuyShopItem(key string) Intent      { return Intent{Type: IntentBuyShopItem, Key: key} }
func UseInventoryItem(key string) Intent { return Intent{Type: IntentUseInventoryItem, Key: key} }
