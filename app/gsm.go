package app

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	log "github.com/sirupsen/logrus"
)

type gsmSecret struct {
	label      string
	secretName string
	target     *string
	// secret is skipped when another source already configured it
	configured bool
	required   bool
}

func gsmSecrets() []gsmSecret {
	gsm := Config.GoogleSecretManager
	return []gsmSecret{
		{
			label:      "mongo uri",
			secretName: gsm.MongoSecretName,
			target:     &Config.MongoDB.URI,
			configured: Config.MongoDB.URI != "",
		},
		{
			label:      "ethereum private key",
			secretName: gsm.EthSecretName,
			target:     &Config.Ethereum.PrivateKey,
			configured: Config.Ethereum.PrivateKey != "" || Config.Ethereum.Mnemonic != "" || Config.Ethereum.GcpKmsKeyName != "",
			required:   true,
		},
		{
			label:      "defichain payout key",
			secretName: gsm.DefiChainSecretName,
			target:     &Config.DefiChain.PayoutWIF,
			configured: Config.DefiChain.PayoutWIF != "" || Config.DefiChain.Mnemonic != "",
			required:   true,
		},
	}
}

func accessSecretVersion(client *secretmanager.Client, name string) (string, error) {
	req := &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", Config.GoogleSecretManager.ProjectId, name),
	}

	result, err := client.AccessSecretVersion(context.Background(), req)
	if err != nil {
		return "", err
	}

	return string(result.Payload.Data), nil
}

func readKeysFromGSM() {
	if !Config.GoogleSecretManager.Enabled {
		log.Debug("[GSM] Google Secret Manager is disabled")
		return
	}

	if Config.GoogleSecretManager.ProjectId == "" {
		log.Fatalf("[GSM] ProjectId is empty")
	}

	ctx := context.Background()
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		log.Fatalf("[GSM] Failed to create secretmanager client: %v", err)
	}
	defer client.Close()

	for _, secret := range gsmSecrets() {
		if secret.configured {
			continue
		}
		if secret.secretName == "" {
			if secret.required {
				log.Fatalf("[GSM] Secret name for %s is empty", secret.label)
			}
			continue
		}

		log.Debug("[GSM] Reading ", secret.label)
		value, err := accessSecretVersion(client, secret.secretName)
		if err != nil {
			log.Fatalf("[GSM] Failed to access %s: %v", secret.label, err)
		}
		*secret.target = value
		log.Info("[GSM] Successfully read ", secret.label)
	}
}
