package parser

const sampleDeliverySubject = "Incoming Catering Order: Delivery Order Received for (02348)"

const sampleDeliveryEmail = `
Catering Delivery Order for 02348
Delivery Time
Wednesday 1/14/2026 at 11:30am
Delivery Address
2675 Morgantown Road
Penske (white Penske building)
Reading, PA 19607
Customer Information
Pepper Joulwan
+15706403397
pepper.joulwan@penske.com
Guest Count:  15
Paper Goods:  No
Item Name
Large Garden Salad Tray
1
$47.00
Subtotal
$47.00
Tax
$2.82
Total
$49.82
`

const samplePickupEmail = "Catering Pickup Order\r\n" +
	"Pickup Time\r\n" +
	"Friday 1/9/2026 at 10:45am\r\n" +
	"Customer Information\r\n" +
	"Dana Smith\r\n" +
	"(610) 555-0142\r\n" +
	"Email: dana.smith@example.com\r\n" +
	"Paper Goods: Yes\r\n" +
	"Guest Count: 30\r\n" +
	"Notes: please slice the cookies\r\n" +
	"Item Name\r\n" +
	"Quantity\r\n" +
	"Price\r\n" +
	"Nugget Tray\r\n" +
	"2\r\n" +
	"$40.00\r\n" +
	"  Honey Mustard\r\n" +
	"2\r\n" +
	"Chick-n-Strips Tray\r\n" +
	"1\r\n" +
	"$1,035.50\r\n" +
	"  Buffalo\r\n" +
	"1\r\n" +
	"  Extra Pickles\r\n" +
	"1\r\n" +
	"$0.75\r\n" +
	"Subtotal: $1,116.25\r\n" +
	"Tax: $66.98\r\n" +
	"Total: $1,183.23\r\n"
