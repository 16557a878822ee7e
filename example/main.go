// Example usage of the exchange order SDK
package main

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	consideration "github.com/exchangekit/consideration-sdk-go"
	"github.com/exchangekit/consideration-sdk-go/chain"
)

func main() {
	// Load RPC_URL and PRIVATE_KEY from .env if present
	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	config := consideration.ClientConfig{
		ChainID:       consideration.ChainIDGoerli,
		RPCURL:        os.Getenv("RPC_URL"),
		PrivateKey:    os.Getenv("PRIVATE_KEY"),
		ProxyStrategy: consideration.ProxyStrategyIfZeroApprovalsNeeded,
		Logger:        logger,
	}

	client, err := consideration.NewClient(config)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()

	// Example: list an ERC721 for 1 ETH with a 2.5% fee
	nftAddress := common.HexToAddress("0x1111111111111111111111111111111111111111")
	feeRecipient := common.HexToAddress("0x2222222222222222222222222222222222222222")

	fmt.Println("Planning order creation...")
	createUseCase, err := client.CreateOrder(ctx, consideration.CreateOrderInput{
		Offer: []chain.OfferItem{
			{
				ItemType:             chain.ItemTypeERC721,
				Token:                nftAddress,
				IdentifierOrCriteria: big.NewInt(1),
				StartAmount:          big.NewInt(1),
				EndAmount:            big.NewInt(1),
			},
		},
		Consideration: []chain.ConsiderationItem{
			{
				ItemType:             chain.ItemTypeNative,
				IdentifierOrCriteria: big.NewInt(0),
				StartAmount:          big.NewInt(1000000000000000000),
				EndAmount:            big.NewInt(1000000000000000000),
			},
		},
		Fees: []consideration.Fee{
			{Recipient: feeRecipient, BasisPoints: 250},
		},
	})
	if err != nil {
		log.Fatalf("Failed to plan order: %v", err)
	}

	fmt.Printf("Plan has %d action(s)\n", len(createUseCase.Actions))

	created, err := createUseCase.ExecuteAllActions(ctx)
	if err != nil {
		log.Fatalf("Failed to create order: %v", err)
	}
	fmt.Printf("Created order %s\n", created.OrderHash.Hex())

	// Example: fulfill the order from the same key (normally another account)
	fmt.Println("Planning fulfillment...")
	fulfillUseCase, err := client.FulfillOrder(ctx, created.Order, consideration.FulfillOrderInput{})
	if err != nil {
		log.Fatalf("Failed to plan fulfillment: %v", err)
	}

	tx, err := fulfillUseCase.ExecuteAllActions(ctx)
	if err != nil {
		log.Fatalf("Failed to fulfill order: %v", err)
	}
	fmt.Printf("Fulfilled in tx %s\n", tx.Hash().Hex())
}
